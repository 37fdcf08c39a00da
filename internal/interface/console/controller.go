package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/alem-hub/grade-tracker/internal/application/command"
	"github.com/alem-hub/grade-tracker/internal/application/query"
	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// PromptChoice asks for a menu option.
const PromptChoice = "Enter your choice: "

// ChartDisplay renders the session averages for the user.
// It returns the written image path.
type ChartDisplay interface {
	Display(ctx context.Context, students []*student.Student) (string, error)
}

// MenuItem is one numbered menu option.
type MenuItem struct {
	Key     string
	Label   string
	handler func(ctx context.Context) (exit bool, err error)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Options wires the controller.
type Options struct {
	In  io.Reader
	Out io.Writer

	// Store receives persisted followed by session on exit.
	Store student.SnapshotStore

	Chart ChartDisplay

	// Persisted is the collection loaded at startup. It is never mutated.
	Persisted []*student.Student

	Catalog student.SubjectCatalog
	Scores  student.ScoreRange

	// SaveTimeout bounds the save on exit (0 = no extra deadline).
	SaveTimeout time.Duration

	// ShowChartPath prints the chart file location after display.
	ShowChartPath bool

	Color  bool
	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTROLLER
// Owns the two collections for the run: what was loaded and what was entered.
// Analytics, ranking and chart only ever see the session collection.
// ══════════════════════════════════════════════════════════════════════════════

// Controller runs the menu loop.
type Controller struct {
	persisted []*student.Student
	session   []*student.Student

	prompter *LinePrompter
	view     *Presenter
	chart    ChartDisplay
	items    []MenuItem

	addStudents *command.AddStudentsHandler
	averages    *command.CalculateAveragesHandler
	finish      *command.FinishSessionHandler
	rank        *query.RankStudentsHandler

	showChartPath bool
	log           *logger.Logger
}

// NewController creates a controller over opts.
func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("console"))

	persisted := opts.Persisted
	if persisted == nil {
		persisted = []*student.Student{}
	}
	prompter := NewLinePrompter(opts.In, opts.Out)

	c := &Controller{
		persisted:     persisted,
		session:       []*student.Student{},
		prompter:      prompter,
		view:          NewPresenter(opts.Out, opts.Color),
		chart:         opts.Chart,
		addStudents:   command.NewAddStudentsHandler(prompter, opts.Catalog, opts.Scores, log),
		averages:      command.NewCalculateAveragesHandler(log),
		finish:        command.NewFinishSessionHandler(opts.Store, opts.SaveTimeout, log),
		rank:          query.NewRankStudentsHandler(log),
		showChartPath: opts.ShowChartPath,
		log:           log,
	}
	c.items = []MenuItem{
		{Key: "1", Label: "Add Students", handler: c.handleAddStudents},
		{Key: "2", Label: "Calculate Averages", handler: c.handleCalculateAverages},
		{Key: "3", Label: "Sort Students", handler: c.handleSortStudents},
		{Key: "4", Label: "Display Graph", handler: c.handleDisplayGraph},
		{Key: "5", Label: "Exit", handler: c.handleExit},
	}
	return c
}

// Session returns the students entered during this run.
func (c *Controller) Session() []*student.Student {
	return c.session
}

// Persisted returns the collection loaded at startup.
func (c *Controller) Persisted() []*student.Student {
	return c.persisted
}

// Run shows the menu until the user exits or input ends.
// End of input behaves like choosing Exit. A save failure is reported to the
// user and does not make Run fail. When ctx is canceled or input fails, the
// session is still saved before Run returns the error.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Info("session started", logger.Int("persisted", len(c.persisted)))

	for {
		c.view.Menu(c.items)

		choice, err := c.prompter.Ask(ctx, PromptChoice)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return c.abort(ctx, err)
			}
			c.view.Line("")
			choice = "5"
		}

		item, ok := c.lookup(strings.TrimSpace(choice))
		if !ok {
			c.view.Line(MsgInvalidChoice)
			continue
		}

		exit, err := item.handler(ctx)
		if err != nil {
			return c.abort(ctx, err)
		}
		if exit {
			return nil
		}
	}
}

// abort saves the session outside ctx's cancellation and returns err.
func (c *Controller) abort(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		c.view.Line("")
		c.log.Info("session interrupted", logger.Int("added", len(c.session)))
	} else {
		c.log.Error("session aborted", logger.Err(err))
	}
	_, _ = c.handleExit(context.WithoutCancel(ctx))
	return err
}

func (c *Controller) lookup(key string) (MenuItem, bool) {
	for _, item := range c.items {
		if item.Key == key {
			return item, true
		}
	}
	return MenuItem{}, false
}

// ─────────────────────────────────────────────────────────────────────────────
// MENU HANDLERS
// ─────────────────────────────────────────────────────────────────────────────

func (c *Controller) handleAddStudents(ctx context.Context) (bool, error) {
	result, err := c.addStudents.Handle(ctx)
	switch {
	case err == nil:
		c.session = append(c.session, result.Students...)
		c.view.Success(MsgStudentsAdded)
	case errors.Is(err, shared.ErrInputClosed):
		c.view.Line("")
		c.view.Line(MsgInvalidNumber)
	case shared.IsValidation(err):
		c.view.Line(MsgInvalidNumber)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false, err
	default:
		c.view.Error(err)
	}
	return false, nil
}

func (c *Controller) handleCalculateAverages(ctx context.Context) (bool, error) {
	result, err := c.averages.Handle(ctx, c.session)
	if result == nil {
		return false, err
	}
	if err != nil {
		c.view.SkippedAverages(result.Skipped)
	} else {
		c.view.Success(MsgAveragesDone)
	}
	c.view.AveragesTable(c.session)
	return false, nil
}

func (c *Controller) handleSortStudents(ctx context.Context) (bool, error) {
	result, err := c.rank.Handle(ctx, query.RankStudentsQuery{Students: c.session})
	if err != nil {
		return false, err
	}
	c.view.Ranking(result)
	return false, nil
}

func (c *Controller) handleDisplayGraph(ctx context.Context) (bool, error) {
	if len(c.session) == 0 {
		c.view.Line(MsgNoSessionData)
		return false, nil
	}

	path, err := c.chart.Display(ctx, c.session)
	if err != nil {
		c.log.Warn("chart not displayed", logger.Err(err))
		c.view.Error(err)
		if path != "" {
			c.view.ChartFile(path)
		}
		return false, nil
	}
	if c.showChartPath {
		c.view.ChartFile(path)
	}
	return false, nil
}

func (c *Controller) handleExit(ctx context.Context) (bool, error) {
	result, err := c.finish.Handle(ctx, command.FinishSessionCommand{
		Persisted: c.persisted,
		Session:   c.session,
	})
	if err != nil {
		c.view.SaveFailed(result.Location, err)
	}
	c.view.Line(MsgExiting)
	return true, nil
}
