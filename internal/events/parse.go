// Package events reads the tab-delimited event listing format and normalizes
// its fields into the form the Canvas calendar API accepts.
package events

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Event is one calendar entry parsed from a listing file, with dates already
// normalized to WireFormat and the description already wrapped.
type Event struct {
	StartAt     string
	EndAt       string
	Title       string
	Description string
}

// MalformedLineError reports a non-comment line that does not split into the
// four tab-separated fields.
type MalformedLineError struct {
	Line   int // 1-based
	Fields int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: expected 4 tab-separated fields (start, end, title, description), got %d", e.Line, e.Fields)
}

// ReadFile parses a listing file into events, in file order. Blank lines and
// lines starting with '#' are skipped. The first malformed line or bad date
// aborts the whole read; a partially valid file yields no events at all, so
// callers can safely act on the result without having mutated anything yet.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var parsed []Event
	scanner := bufio.NewScanner(f)
	for index := 0; scanner.Scan(); index++ {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, &MalformedLineError{Line: index + 1, Fields: len(fields)}
		}

		startAt, err := ParseDate("start_at", index, fields[0])
		if err != nil {
			return nil, err
		}
		endAt, err := ParseDate("end_at", index, fields[1])
		if err != nil {
			return nil, err
		}

		parsed = append(parsed, Event{
			StartAt:     startAt,
			EndAt:       endAt,
			Title:       fields[2],
			Description: WrapDescription(fields[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return parsed, nil
}
