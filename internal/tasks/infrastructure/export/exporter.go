// Package export renders task lists into portable file formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

// ErrUnknownFormat is returned by ForFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter writes tasks to w in one format.
type Exporter interface {
	Export(w io.Writer, tasks []task.Task) error
}

var exporters = map[string]Exporter{
	"json": JSONExporter{},
	"csv":  CSVExporter{},
	"ics":  ICSExporter{},
	"pdf":  PDFExporter{},
}

// ForFormat returns the exporter registered under name, ignoring case.
func ForFormat(name string) (Exporter, error) {
	e, ok := exporters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	return e, nil
}

// Formats lists the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type record struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	Category    string `json:"category"`
}

func toRecord(t task.Task) record {
	return record{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		Completed:   t.IsCompleted(),
		Priority:    t.Priority().String(),
		DueDate:     t.DueDate(),
		Category:    t.Category(),
	}
}
