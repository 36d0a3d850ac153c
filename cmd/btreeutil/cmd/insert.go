package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/gobtree/pkg/gobtree"
)

// insertCmd is a quick way to seed a scratch tree during manual testing;
// it shares dumpCmd's int64-only assumption.
var insertCmd = &cobra.Command{
	Use:   "insert <value>",
	Short: "Insert an int64 value into the tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("path")
		tree, err := gobtree.NewBuilder(gobtree.Int64Comparator, gobtree.Int64Codec()).
			Path(path).
			Open()
		if err != nil {
			return err
		}
		defer tree.Close()
		return tree.Insert(v)
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
}
