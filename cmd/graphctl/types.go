package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	graphruntime "github.com/wippyai/graph-runtime"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the component types resolvable in the registry",
	Long: `types loads the given extensions, manifests, and metadata files and
prints every component type the registry can resolve. Metadata-only
imports count: a type is resolvable as soon as its record is known,
whether or not the implementing extension is in the process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, &typesOpts)
		if err != nil {
			return err
		}
		defer rt.Close(cmd.Context())

		extNames := make(map[graphruntime.TID]string)
		for _, ext := range rt.Extensions() {
			extNames[ext.ID] = ext.Name
		}

		records := rt.Types()
		sort.Slice(records, func(i, j int) bool { return records[i].TypeName < records[j].TypeName })

		for _, rec := range records {
			fmt.Printf("%s\n", rec.TypeName)
			fmt.Printf("  tid:       %s\n", rec.TID)
			if rec.BaseTypeName != "" {
				fmt.Printf("  base:      %s\n", rec.BaseTypeName)
			}
			fmt.Printf("  extension: %s\n", extNames[rec.Extension])
		}
		fmt.Printf("\n%d type(s)\n", len(records))
		return nil
	},
}

var typesOpts loadFlags

func init() {
	registerLoadFlags(typesCmd, &typesOpts)
}
