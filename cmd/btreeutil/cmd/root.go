package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is a dev-only diagnostic CLI over a gobtree data file. It has no
// bearing on the library's correctness; it exists to let a developer poke
// at a tree's on-disk layout without writing a throwaway Go program.
var rootCmd = &cobra.Command{
	Use:   "btreeutil",
	Short: "Inspect a gobtree data file",
	Long: `btreeutil is a diagnostic tool for int64-valued gobtree data files:
"dump" prints the tree's degree and every live value in order, and
"insert" adds one value. It is not part of the library's public surface.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("path", "p", "", "path to the tree's base data file")
	_ = rootCmd.MarkPersistentFlagRequired("path")
}
