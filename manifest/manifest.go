package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
)

// Key is the single recognized top-level entry of a manifest file.
const Key = "extensions"

// Resolve turns a load request into the ordered list of extension paths to
// hand to the loader. Direct extension filenames come first, then the entries
// of each manifest in argument order; order within each source is preserved
// because dependency-respecting manifests rely on it. The base directory is
// prepended to every relative path, manifest-sourced or direct.
//
// A malformed manifest fails the whole call; no partial list is returned.
func Resolve(info graphruntime.LoadExtensionsInfo) ([]string, error) {
	paths := make([]string, 0, len(info.ExtensionFilenames))

	for _, fn := range info.ExtensionFilenames {
		if fn == "" {
			return nil, errors.InvalidArgument(errors.PhaseManifest, "empty extension filename")
		}
		paths = append(paths, resolvePath(info.BaseDirectory, fn))
	}

	for _, mf := range info.ManifestFilenames {
		entries, err := Parse(mf)
		if err != nil {
			return nil, err
		}
		for _, fn := range entries {
			paths = append(paths, resolvePath(info.BaseDirectory, fn))
		}
	}

	return paths, nil
}

// Parse reads one manifest file and returns its extension filenames in file
// order. The manifest is a YAML document with exactly one recognized
// top-level list entry named "extensions".
func Parse(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(errors.PhaseManifest, "manifest", path)
		}
		return nil, errors.Wrap(errors.PhaseManifest, errors.KindInvalidArg, err,
			fmt.Sprintf("read manifest %q", path))
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseManifest, errors.KindInvalidArg, err,
			fmt.Sprintf("parse manifest %q", path))
	}

	node, ok := doc[Key]
	if !ok {
		return nil, errors.New(errors.PhaseManifest, errors.KindInvalidArg).
			Path(path).
			Detail("missing top-level %q key", Key).
			Build()
	}

	var entries []string
	if err := node.Decode(&entries); err != nil {
		return nil, errors.New(errors.PhaseManifest, errors.KindInvalidArg).
			Path(path).
			Cause(err).
			Detail("%q must be a list of extension filenames", Key).
			Build()
	}

	for i, fn := range entries {
		if fn == "" {
			return nil, errors.New(errors.PhaseManifest, errors.KindInvalidArg).
				Path(path).
				Detail("empty extension filename at index %d", i).
				Build()
		}
	}

	return entries, nil
}

func resolvePath(base, path string) string {
	if base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
