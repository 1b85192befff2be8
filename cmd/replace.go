package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// replaceCmd represents the replace command
var replaceCmd = &cobra.Command{
	Use:   "replace <courseid> <listingfile>",
	Short: "Replace the course events created by this tool with those in a listing file",
	Long: `Parse the listing file, delete the course events a previous run created
(recognized by their hidden description marker), and create the listed
events in file order. The file is parsed completely before anything is
deleted; a malformed file leaves the calendar untouched.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			log.Fatalf("Error parsing arg dry-run: %v", err)
		}
		courseID := parseCourseID(args[0])
		ctx := context.Background()
		syncer := newSyncer(ctx, courseID)
		if err := syncer.Replace(ctx, args[1], dryRun); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	replaceCmd.Flags().Bool("dry-run", false, "Print what would be deleted and created instead of changing the calendar")
	RootCmd.AddCommand(replaceCmd)
}
