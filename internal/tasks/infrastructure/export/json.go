package export

import (
	"encoding/json"
	"io"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

// JSONExporter writes an indented JSON array.
type JSONExporter struct{}

// Export implements Exporter.
func (JSONExporter) Export(w io.Writer, tasks []task.Task) error {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, toRecord(t))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
