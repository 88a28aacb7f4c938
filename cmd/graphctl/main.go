package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "graphctl",
	Short: "Load and inspect graph runtime extensions",
	Long: `graphctl loads extension modules and manifests the same way an
embedding application would, then reports what the runtime registry
ends up holding: extensions, their load state, and the component
types they contribute.`,
}

func main() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(inspectCmd)

	rootCmd.PersistentFlags().String("severity", "info", "log severity (none|error|warning|info|debug)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress runtime log output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
