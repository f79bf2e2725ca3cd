package main

import (
	"fmt"

	"github.com/simtools/dbpfkit/internal/tgi"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash <name>...",
	Short: "Hash resource names the way the game does",
	Long: `Hash prints the FNV digests the game derives group and instance ids from.
Hashing is case-insensitive, so "MyMod" and "mymod" collide on purpose.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%-32s %-10s %-12s %s\n", "Name", "FNV24", "FNV32", "FNV64")
		for _, name := range args {
			fmt.Printf("%-32s %-10s %-12s %s\n", name,
				fmt.Sprintf("0x%06X", tgi.Hash24(name)),
				fmt.Sprintf("0x%08X", tgi.Hash32(name)),
				fmt.Sprintf("0x%016X", tgi.Hash64(name)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
