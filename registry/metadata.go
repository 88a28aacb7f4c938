package registry

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
)

// ParseMetadataFile reads one metadata file produced by the registration
// tool. The file is the YAML form of an extension descriptor: the extension's
// identity and component type records, without any implementation.
func ParseMetadataFile(path string) (*graphruntime.ExtensionDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(errors.PhaseRegistry, "metadata file", path)
		}
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidArg, err,
			fmt.Sprintf("read metadata file %q", path))
	}

	var desc graphruntime.ExtensionDescriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidArg, err,
			fmt.Sprintf("parse metadata file %q", path))
	}
	if err := ValidateDescriptor(&desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// ImportMetadata imports one or more metadata files into the registries.
// Files are parsed concurrently; commits stay in argument order so the
// no-op/conflict outcome for overlapping files is deterministic. Committing
// stops at the first conflict, leaving files before it imported and files
// after it untouched; each file's own records commit atomically.
func ImportMetadata(types *TypeRegistry, exts *ExtensionRegistry, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	descs := make([]*graphruntime.ExtensionDescriptor, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			desc, err := ParseMetadataFile(path)
			if err != nil {
				return err
			}
			descs[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, desc := range descs {
		if err := types.Register(desc.ID, desc.Components); err != nil {
			return err
		}
		if err := exts.RecordMetadata(desc); err != nil {
			return err
		}
	}
	return nil
}
