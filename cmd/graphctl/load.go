package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/logging"
	"github.com/wippyai/graph-runtime/registry"
	"github.com/wippyai/graph-runtime/runtime"
)

// loadFlags are the inputs shared by every subcommand that builds a
// runtime: which modules to load, from where, and what metadata to
// import alongside them.
type loadFlags struct {
	extensions []string
	manifests  []string
	metadata   []string
	baseDir    string
}

func registerLoadFlags(cmd *cobra.Command, f *loadFlags) {
	cmd.Flags().StringArrayVarP(&f.extensions, "extension", "e", nil, "extension module to load (repeatable)")
	cmd.Flags().StringArrayVarP(&f.manifests, "manifest", "m", nil, "manifest listing extension modules (repeatable)")
	cmd.Flags().StringArrayVar(&f.metadata, "metadata", nil, "metadata file to import without loading (repeatable)")
	cmd.Flags().StringVarP(&f.baseDir, "base-dir", "B", "", "directory prepended to relative extension paths")
}

// openRuntime builds a runtime from the command's flags, imports any
// metadata files, and performs the load. The caller owns the returned
// runtime and must close it.
func openRuntime(cmd *cobra.Command, f *loadFlags) (*runtime.Runtime, error) {
	sevStr, _ := cmd.Flags().GetString("severity")
	sev, err := logging.ParseSeverity(sevStr)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
	}

	ctx := cmd.Context()
	rt, err := runtime.New(ctx, runtime.WithLogger(logger), runtime.WithSeverity(sev))
	if err != nil {
		return nil, err
	}

	if len(f.metadata) > 0 {
		if err := rt.ImportMetadata(ctx, f.metadata...); err != nil {
			rt.Close(ctx)
			return nil, err
		}
	}

	if len(f.extensions) > 0 || len(f.manifests) > 0 {
		err := rt.LoadExtensions(ctx, graphruntime.LoadExtensionsInfo{
			ExtensionFilenames: f.extensions,
			ManifestFilenames:  f.manifests,
			BaseDirectory:      f.baseDir,
		})
		if err != nil {
			rt.Close(ctx)
			return nil, err
		}
	}

	return rt, nil
}

func sortedExtensions(rt *runtime.Runtime) []registry.Extension {
	exts := rt.Extensions()
	sort.Slice(exts, func(i, j int) bool { return exts[i].Name < exts[j].Name })
	return exts
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load extensions and report what was registered",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, &loadOpts)
		if err != nil {
			return err
		}
		defer rt.Close(cmd.Context())

		exts := sortedExtensions(rt)
		fmt.Printf("Loaded %d extension(s), %d component type(s)\n\n", len(exts), len(rt.Types()))
		for _, ext := range exts {
			fmt.Printf("%s %s (%s)\n", ext.Name, ext.Version, ext.State)
			fmt.Printf("  id:    %s\n", ext.ID)
			if ext.Path != "" {
				fmt.Printf("  path:  %s\n", ext.Path)
			}
			fmt.Printf("  types: %d\n", len(ext.Types))
		}
		return nil
	},
}

var loadOpts loadFlags

func init() {
	registerLoadFlags(loadCmd, &loadOpts)
}
