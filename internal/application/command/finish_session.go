package command

import (
	"context"
	"time"

	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// FINISH SESSION COMMAND
// Appends the session batch to the persisted collection and saves the union.
// ══════════════════════════════════════════════════════════════════════════════

// FinishSessionCommand carries both collections owned by the controller.
type FinishSessionCommand struct {
	Persisted []*student.Student
	Session   []*student.Student
}

// FinishSessionResult describes what was written.
type FinishSessionResult struct {
	// Students is the merged collection passed to the store.
	Students []*student.Student

	// Location is where the snapshot was written.
	Location string
}

// FinishSessionHandler merges and saves on exit.
type FinishSessionHandler struct {
	store   student.SnapshotStore
	timeout time.Duration
	log     *logger.Logger
}

// NewFinishSessionHandler creates a new FinishSessionHandler.
// A zero timeout leaves the caller's context deadline in charge.
func NewFinishSessionHandler(store student.SnapshotStore, timeout time.Duration, log *logger.Logger) *FinishSessionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &FinishSessionHandler{
		store:   store,
		timeout: timeout,
		log:     log.With(logger.Operation("finish_session")),
	}
}

// Handle saves Persisted followed by Session.
// The result is returned even when the save fails, so callers can report the location.
func (h *FinishSessionHandler) Handle(ctx context.Context, cmd FinishSessionCommand) (*FinishSessionResult, error) {
	merged := student.Merge(cmd.Persisted, cmd.Session)
	result := &FinishSessionResult{Students: merged, Location: h.store.Location()}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if err := h.store.Save(ctx, merged); err != nil {
		h.log.Error("failed to save session", logger.Location(result.Location), logger.Err(err))
		return result, err
	}

	h.log.Info("session saved",
		logger.Location(result.Location),
		logger.Int("persisted", len(cmd.Persisted)),
		logger.Int("added", len(cmd.Session)),
	)
	return result, nil
}
