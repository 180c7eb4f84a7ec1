package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
)

// PDFExporter writes a printable task report.
type PDFExporter struct{}

// Export implements Exporter.
func (PDFExporter) Export(w io.Writer, tasks []task.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented titles survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.MultiCell(0, 6, "No tasks.", "0", "L", false)
	}
	for _, t := range tasks {
		status := "[ ]"
		if t.IsCompleted() {
			status = "[x]"
		}
		line := fmt.Sprintf("%s #%d %s - %s (%s) - Due: %s",
			status, t.ID(), t.Title(), t.Priority().Label(), t.Category(), t.DueDate())
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		if t.Description() != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr("    "+t.Description()), "0", "L", false)
			pdf.SetFont("Arial", "", 10)
		}
	}

	return pdf.Output(w)
}
