// Package sync replaces or lists the calendar events of one Canvas course.
package sync

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"unicode/utf8"

	"github.com/coursetools/canvascal/internal/canvas"
	"github.com/coursetools/canvascal/internal/events"
)

// CalendarService is the slice of the Canvas client the orchestrator needs.
// Tests substitute a mock.
type CalendarService interface {
	ListEvents(ctx context.Context, courseID int) ([]canvas.Event, error)
	CreateEvent(ctx context.Context, courseID int, event events.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

// Syncer runs the list and replace operations against one course.
type Syncer struct {
	Service  CalendarService
	CourseID int
	Out      io.Writer
}

func New(service CalendarService, courseID int) *Syncer {
	return &Syncer{
		Service:  service,
		CourseID: courseID,
		Out:      os.Stdout,
	}
}

// List prints every event of the course as "title: description", in the
// order the server returns them.
func (s *Syncer) List(ctx context.Context) error {
	all, err := s.Service.ListEvents(ctx, s.CourseID)
	if err != nil {
		return err
	}
	for _, e := range all {
		description := ""
		if e.Description != nil {
			description = *e.Description
		}
		fmt.Fprintf(s.Out, "%s: %s\n", e.Title, description)
	}
	return nil
}

// Replace deletes the events a previous run created and recreates the course
// calendar from the listing file.
//
// The file is parsed completely before anything remote is touched; a parse
// error leaves the calendar as it was. Delete failures are reported per event
// and do not stop the batch. The first create failure stops the remaining
// creations; whatever was already created carries the marker and is cleaned
// up by the next run.
func (s *Syncer) Replace(ctx context.Context, path string, dryRun bool) error {
	newEvents, err := events.ReadFile(path)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintln(s.Out, "DRY RUN - nothing will be changed")
	}

	if err := s.deleteTagged(ctx, dryRun); err != nil {
		return err
	}

	fmt.Fprintf(s.Out, "Creating %d new event(s).\n", len(newEvents))
	for i, event := range newEvents {
		fmt.Fprintf(s.Out, "%d/%d. %s\n", i+1, len(newEvents), truncate(event.Title+" "+event.Description, 80))
		if dryRun {
			continue
		}
		if err := s.Service.CreateEvent(ctx, s.CourseID, event); err != nil {
			return fmt.Errorf("creating event %d/%d: %w", i+1, len(newEvents), err)
		}
	}
	return nil
}

func (s *Syncer) deleteTagged(ctx context.Context, dryRun bool) error {
	all, err := s.Service.ListEvents(ctx, s.CourseID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Found %d existing event(s)\n", len(all))

	var tagged []canvas.Event
	for _, e := range all {
		if e.Tagged() {
			tagged = append(tagged, e)
		}
	}
	if len(tagged) == 0 {
		fmt.Fprintln(s.Out, "No previous events to remove")
		return nil
	}

	if dryRun {
		for _, e := range tagged {
			fmt.Fprintf(s.Out, "DRY RUN - would delete %q (id %d)\n", e.Title, e.ID)
		}
		return nil
	}

	fmt.Fprintf(s.Out, "Removing %d event(s) previously created with this tool", len(tagged))
	for _, e := range tagged {
		fmt.Fprint(s.Out, ".")
		if err := s.Service.DeleteEvent(ctx, e.ID); err != nil {
			log.Printf("could not delete event id %d: %v", e.ID, err)
		}
	}
	fmt.Fprintln(s.Out)
	return nil
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) < maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-1]) + "…"
}
