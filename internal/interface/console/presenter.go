package console

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/alem-hub/grade-tracker/internal/application/query"
	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

const (
	MenuTitle = "Student Grade Tracker"

	MsgStudentsAdded       = "Students added successfully."
	MsgInvalidNumber       = "Invalid input. Please enter a valid number."
	MsgAveragesDone        = "Averages calculated successfully."
	MsgNoSessionData       = "No new student data available. Please add students and calculate averages first."
	MsgExiting             = "Exiting program..."
	MsgInvalidChoice       = "Invalid choice. Please enter a number between 1 and 5."
	msgSaveFailedFormat    = "An error occurred while saving data to '%s': %v"
	msgMissingFormat       = "File '%s' not found. Creating a new file."
	msgStoredMissingFormat = "No saved students at '%s'. Starting a new snapshot."
	msgSkippedFormat       = "No grades recorded for '%s'; average not calculated."
	msgChartFileFormat     = "Chart written to %s"
	msgRankFormat          = "%d. %s: %s"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRESENTER
// Formats controller output. Colors are cosmetic; the text is identical with
// or without them.
// ══════════════════════════════════════════════════════════════════════════════

// Presenter writes user-facing output.
type Presenter struct {
	out     io.Writer
	header  *color.Color
	success *color.Color
	warn    *color.Color
	failure *color.Color
}

// NewPresenter creates a presenter writing to out.
func NewPresenter(out io.Writer, useColor bool) *Presenter {
	p := &Presenter{
		out:     out,
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.header, p.success, p.warn, p.failure} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Menu prints the main menu, preceded by a blank line.
func (p *Presenter) Menu(items []MenuItem) {
	fmt.Fprintln(p.out)
	p.header.Fprintln(p.out, MenuTitle)
	for _, item := range items {
		fmt.Fprintf(p.out, "%s. %s\n", item.Key, item.Label)
	}
}

// Line prints a plain message.
func (p *Presenter) Line(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Success prints a confirmation.
func (p *Presenter) Success(msg string) {
	p.success.Fprintln(p.out, msg)
}

// Warn prints a non-fatal problem.
func (p *Presenter) Warn(msg string) {
	p.warn.Fprintln(p.out, msg)
}

// Error prints a failure using the error's user-facing message, followed by
// the underlying cause when there is one.
func (p *Presenter) Error(err error) {
	msg := UserMessage(err)
	if cause := Cause(err); cause != err {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	p.failure.Fprintln(p.out, msg)
}

// SnapshotMissing reports that no snapshot file existed at path.
func (p *Presenter) SnapshotMissing(path string) {
	p.Line(fmt.Sprintf(msgMissingFormat, path))
}

// StoredSnapshotMissing reports that a database or cache held no snapshot at location.
func (p *Presenter) StoredSnapshotMissing(location string) {
	p.Line(fmt.Sprintf(msgStoredMissingFormat, location))
}

// SaveFailed reports a failed save at location.
func (p *Presenter) SaveFailed(location string, err error) {
	p.failure.Fprintln(p.out, fmt.Sprintf(msgSaveFailedFormat, location, Cause(err)))
}

// SkippedAverages warns about each student left without an average.
func (p *Presenter) SkippedAverages(names []string) {
	for _, name := range names {
		p.Warn(fmt.Sprintf(msgSkippedFormat, name))
	}
}

// ChartFile reports where a chart was written when no viewer was launched.
func (p *Presenter) ChartFile(path string) {
	p.Line(fmt.Sprintf(msgChartFileFormat, path))
}

// Ranking prints one "<pos>. <name>: <average>" line per entry.
func (p *Presenter) Ranking(result *query.RankStudentsResult) {
	for _, e := range result.Entries {
		fmt.Fprintf(p.out, msgRankFormat+"\n", e.Position, e.Name, e.DisplayAverage())
	}
}

// AveragesTable renders name, each subject score, and the average.
func (p *Presenter) AveragesTable(students []*student.Student) {
	if len(students) == 0 {
		return
	}
	subjects := subjectColumns(students)

	table := tablewriter.NewWriter(p.out)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(append(append([]string{"Name"}, subjects...), "Average"))
	for _, st := range students {
		row := make([]string, 0, len(subjects)+2)
		row = append(row, st.Name)
		for _, subject := range subjects {
			score, ok := st.Grades[subject]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, query.FormatAverage(score))
		}
		if avg, ok := st.Average(); ok {
			row = append(row, query.FormatAverage(avg))
		} else {
			row = append(row, query.NotAvailable)
		}
		table.Append(row)
	}
	table.Render()
}

// subjectColumns returns the union of subjects across students, sorted.
func subjectColumns(students []*student.Student) []string {
	seen := make(map[string]struct{})
	var subjects []string
	for _, st := range students {
		for subject := range st.Grades {
			if _, ok := seen[subject]; ok {
				continue
			}
			seen[subject] = struct{}{}
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)
	return subjects
}

// UserMessage returns the message of the outermost domain error, or err's text.
func UserMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}

// Cause returns the error beneath a domain error, for "...: <cause>" messages.
func Cause(err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Err != nil {
		return de.Err
	}
	return err
}
