package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <courseid>",
	Short: "List all calendar events of a course",
	Long:  `Print title and description of every calendar event in the course, in the order the server returns them.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		courseID := parseCourseID(args[0])
		ctx := context.Background()
		syncer := newSyncer(ctx, courseID)
		if err := syncer.List(ctx); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(listCmd)
}
