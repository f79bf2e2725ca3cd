package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/simtools/dbpfkit/internal/dbpf"
	"github.com/simtools/dbpfkit/internal/scan"
	"github.com/simtools/dbpfkit/internal/tgi"
	"github.com/simtools/dbpfkit/internal/utils"
	"github.com/spf13/cobra"
)

// knownBadResources ship corrupt in the stock game files and never decode.
var knownBadResources = map[tgi.TGI]bool{
	{Type: tgi.TrackSettings, Group: 0x0DA1F2CA, Instance: 0xDDB5D85EFF99E0DE}: true,
	{Type: tgi.TrackSettings, Group: 0xEB8AB356, Instance: 0x12D2658DFF8BCEB2}: true,
	{Type: tgi.WallXML, Group: 0x4C8CC5C0, Instance: 0x0CE4B4DA}:               true,
	{Type: tgi.WallXML, Group: 0x4C8CC5C0, Instance: 0xCCC26AC8}:               true,
	{Type: tgi.WallXML, Group: 0x4C8CC5C0, Instance: 0x2CE48516}:               true,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <path>...",
	Short: "Decode every resource and report what fails",
	Long: `Decode runs every resource of every package through its codec and reports
the entries that fail to parse. It is a health check for a downloads folder
and for the codecs themselves: a clean run means every supported resource
round-trips.

Resource types without a codec are counted but not reported as failures.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		files, err := scan.Discover(args)
		if err != nil {
			return err
		}

		progress := utils.NewProgress(len(files), progressEnabled())

		var entries, decoded, failed, skipped int
		failuresByType := make(map[tgi.TypeID]int)
		var reports []string

		for i, path := range files {
			progress.Update(i+1, filepath.Base(path))

			f, err := dbpf.OpenFile(path)
			if err != nil {
				slog.Warn("Skipping unreadable package", "path", path, "error", err)
				continue
			}
			list, err := f.Entries()
			if err != nil {
				slog.Warn("Skipping unreadable package", "path", path, "error", err)
				f.Close()
				continue
			}

			for j, entry := range list {
				if knownBadResources[entry.TGI] {
					skipped++
					continue
				}
				entries++
				_, ok, err := entry.Decoded(ctx)
				switch {
				case err != nil:
					failed++
					failuresByType[entry.TGI.Type]++
					reports = append(reports, fmt.Sprintf("%d/%d %s: %s\n%v",
						j+1, len(list), entry.TGI, path, err))
				case ok:
					decoded++
				}
			}
			f.Close()
		}
		progress.Finish()

		for _, report := range reports {
			fmt.Printf("%s\n\n", report)
		}

		fmt.Printf("Packages: %d\n", len(files))
		fmt.Printf("Entries decoded: %s of %s\n", utils.Number(int64(decoded)), utils.Number(int64(entries)))
		fmt.Printf("Failures: %d\n", failed)
		if skipped > 0 {
			fmt.Printf("Known bad entries skipped: %d\n", skipped)
		}
		if len(failuresByType) > 0 {
			types := make([]tgi.TypeID, 0, len(failuresByType))
			for t := range failuresByType {
				types = append(types, t)
			}
			sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
			fmt.Println("Failures by type:")
			for _, t := range types {
				fmt.Printf("  %s: %d\n", t.FullName(), failuresByType[t])
			}
		}
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
