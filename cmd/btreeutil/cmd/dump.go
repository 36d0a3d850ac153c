package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/gobtree/pkg/gobtree"
)

// dumpCmd opens a tree read-write (the engine has no read-only mode) and
// walks it in order. It assumes an int64-valued tree, the only concrete
// instantiation this tool knows how to decode without a schema.
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every live value in the tree, in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		tree, err := gobtree.NewBuilder(gobtree.Int64Comparator, gobtree.Int64Codec()).
			Path(path).
			Open()
		if err != nil {
			return err
		}
		defer tree.Close()

		fmt.Printf("degree=%d\n", tree.Degree())
		count := 0
		tree.Iterate(func(v int64) bool {
			fmt.Println(v)
			count++
			return true
		})
		fmt.Printf("# %d values\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
