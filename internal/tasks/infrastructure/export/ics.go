package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-ical"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

const icsProductID = "-//Todo//Task Export//EN"

// ErrEmptyCalendar is returned when there are no tasks to put in a calendar.
var ErrEmptyCalendar = errors.New("no tasks to export")

// ICSExporter writes an iCalendar file with one VTODO per task.
type ICSExporter struct {
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

// Export implements Exporter.
func (e ICSExporter) Export(w io.Writer, tasks []task.Task) error {
	if len(tasks) == 0 {
		return ErrEmptyCalendar
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, t := range tasks {
		cal.Children = append(cal.Children, toVTodo(t, stamp))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func toVTodo(t task.Task, stamp time.Time) *ical.Component {
	todo := ical.NewComponent(ical.CompToDo)
	todo.Props.SetText(ical.PropUID, fmt.Sprintf("%d@todo", t.ID()))
	todo.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	todo.Props.SetText(ical.PropSummary, t.Title())
	if t.Description() != "" {
		todo.Props.SetText(ical.PropDescription, t.Description())
	}
	if t.Category() != "" {
		todo.Props.SetText(ical.PropCategories, t.Category())
	}
	if level := icsPriority(t.Priority()); level > 0 {
		prop := ical.NewProp(ical.PropPriority)
		prop.Value = strconv.Itoa(level)
		todo.Props.Set(prop)
	}
	if t.IsCompleted() {
		todo.Props.SetText(ical.PropStatus, "COMPLETED")
	} else {
		todo.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
	}
	// Free-form due dates such as "No due date" are left out.
	if due, err := time.Parse("2006-01-02", t.DueDate()); err == nil {
		todo.Props.SetDate(ical.PropDue, due)
	}
	return todo
}

// icsPriority maps to RFC 5545 levels: 1 highest, 9 lowest, 0 undefined.
func icsPriority(p value_objects.Priority) int {
	switch p {
	case value_objects.PriorityHigh:
		return 1
	case value_objects.PriorityMedium:
		return 5
	case value_objects.PriorityLow:
		return 9
	default:
		return 0
	}
}
