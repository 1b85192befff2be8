package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coursetools/canvascal/internal/auth"
	"github.com/coursetools/canvascal/internal/canvas"
	"github.com/coursetools/canvascal/internal/config"
	"github.com/coursetools/canvascal/internal/sync"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "canvascal",
		Short: "Create and maintain Canvas course calendar events from a listing file",
		Long: `A CLI tool to manage the calendar of one Canvas course. Events are read
from a tab-delimited listing file; events created by an earlier run are
recognized by a hidden description marker and removed before the new ones
are created, so re-running after editing the file is safe.`,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseCourseID validates the course argument. Canvas course IDs are small
// positive integers.
func parseCourseID(arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		log.Fatalf("course id must be a positive integer, got %q", arg)
	}
	return id
}

// newSyncer wires config, credential and client together for one run.
func newSyncer(ctx context.Context, courseID int) *sync.Syncer {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	token, err := auth.Token()
	if err != nil {
		log.Fatalf("Unable to get access token: %v", err)
	}
	client := canvas.NewClient(canvas.Config{BaseURL: cfg.BaseURL}, auth.HTTPClient(ctx, token))
	return sync.New(client, courseID)
}
