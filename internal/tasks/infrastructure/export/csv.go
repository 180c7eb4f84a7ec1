package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

var csvHeader = []string{"id", "title", "description", "completed", "priority", "due_date", "category"}

// CSVExporter writes one row per task after a header row.
type CSVExporter struct{}

// Export implements Exporter.
func (CSVExporter) Export(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		r := toRecord(t)
		row := []string{
			strconv.Itoa(r.ID),
			r.Title,
			r.Description,
			strconv.FormatBool(r.Completed),
			r.Priority,
			r.DueDate,
			r.Category,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
