package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

func sampleTasks() []task.Task {
	done := task.New(2, "Clean house", "", value_objects.PriorityLow, task.NoDueDate, task.DefaultCategory)
	done.ToggleCompleted()
	return []task.Task{
		task.New(1, "Buy milk", "semi-skimmed, 2l", value_objects.PriorityHigh, "2024-01-01", "Shopping"),
		done,
		task.New(3, "Café ✓", "", value_objects.PriorityNone, "", ""),
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Exporter
		wantErr bool
	}{
		{"json", JSONExporter{}, false},
		{"CSV", CSVExporter{}, false},
		{" ics ", ICSExporter{}, false},
		{"pdf", PDFExporter{}, false},
		{"xml", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "ics", "json", "pdf"}, Formats())
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, sampleTasks()))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "Buy milk", records[0]["title"])
	assert.Equal(t, "high", records[0]["priority"])
	assert.Equal(t, true, records[1]["completed"])
	assert.Equal(t, "No due date", records[1]["due_date"])

	buf.Reset()
	require.NoError(t, JSONExporter{}.Export(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVExporter{}.Export(&buf, sampleTasks()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"1", "Buy milk", "semi-skimmed, 2l", "false", "high", "2024-01-01", "Shopping"}, rows[1])
	assert.Equal(t, []string{"2", "Clean house", "", "true", "low", "No due date", "General"}, rows[2])
}

func TestICSExporter(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, ICSExporter{Now: func() time.Time { return stamp }}.Export(&buf, sampleTasks()))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)
	require.Len(t, cal.Children, 3)

	first := cal.Children[0]
	assert.Equal(t, ical.CompToDo, first.Name)
	assert.Equal(t, "1@todo", first.Props.Get(ical.PropUID).Value)
	assert.Equal(t, "1", first.Props.Get(ical.PropPriority).Value)
	assert.Equal(t, "NEEDS-ACTION", first.Props.Get(ical.PropStatus).Value)
	assert.Equal(t, "20240101", first.Props.Get(ical.PropDue).Value)
	summary, err := first.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", summary)

	second := cal.Children[1]
	assert.Equal(t, "9", second.Props.Get(ical.PropPriority).Value)
	assert.Equal(t, "COMPLETED", second.Props.Get(ical.PropStatus).Value)
	assert.Nil(t, second.Props.Get(ical.PropDue), "free-form due date omitted")

	third := cal.Children[2]
	assert.Nil(t, third.Props.Get(ical.PropPriority))
	assert.Nil(t, third.Props.Get(ical.PropCategories))
}

func TestICSExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, ICSExporter{}.Export(&buf, nil), ErrEmptyCalendar)
	assert.Zero(t, buf.Len())
}

func TestPDFExporter(t *testing.T) {
	for _, tasks := range [][]task.Task{sampleTasks(), nil} {
		var buf bytes.Buffer
		require.NoError(t, PDFExporter{}.Export(&buf, tasks))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	}
}
