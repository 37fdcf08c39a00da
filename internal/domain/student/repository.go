package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// The snapshot port. Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is the result of loading the persisted collection.
type Snapshot struct {
	// Students is the loaded collection, in stored order. Never nil.
	Students []*Student

	// Missing is true when no snapshot existed yet. Students is then empty.
	Missing bool
}

// SnapshotStore persists the whole student collection as one document.
type SnapshotStore interface {
	// Load reads the snapshot. A missing snapshot is not an error:
	// it yields an empty collection with Missing set.
	// A snapshot that cannot be decoded yields shared.ErrSnapshotCorrupt.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the snapshot with students.
	Save(ctx context.Context, students []*Student) error

	// Location describes where the snapshot lives, for user-facing messages.
	Location() string
}

// Merge returns persisted followed by session, as one new slice.
func Merge(persisted, session []*Student) []*Student {
	out := make([]*Student, 0, len(persisted)+len(session))
	out = append(out, persisted...)
	return append(out, session...)
}
