package cmd

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tahsinrahman/tuple-shuffle/internal"
)

var dumpRecords bool

// inspectCmd prints the records of intermediate files
var inspectCmd = &cobra.Command{
	Use:   "inspect [intermediate files...]",
	Short: "Decode and print intermediate files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range args {
			info, err := os.Stat(name)
			if err != nil {
				return err
			}
			kvs, err := internal.ReadIntermediateFile(name)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "# %s: %d records, %s\n", name, len(kvs), humanize.Bytes(uint64(info.Size())))
			for _, kv := range kvs {
				if dumpRecords {
					spew.Fdump(out, kv)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", kv.Key, kv.Value)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&dumpRecords, "dump", false, "dump every record with its field kinds")
}
