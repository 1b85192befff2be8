package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/coursetools/canvascal/internal/events"
	"github.com/coursetools/canvascal/internal/ics"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <listingfile>",
	Short: "Export a listing file as iCalendar",
	Long: `Validate a listing file and write its events as an iCalendar (.ics)
document. No network access; also useful as an offline syntax check.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outPath, err := cmd.Flags().GetString("output")
		if err != nil {
			log.Fatalf("Error parsing arg output: %v", err)
		}

		evs, err := events.ReadFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			out = f
		}
		if err := ics.Write(out, evs); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write the iCalendar document to this file instead of stdout")
	RootCmd.AddCommand(exportCmd)
}
