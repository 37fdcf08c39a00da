package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/internal/infrastructure/persistence/snapshot"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// DefaultSnapshotName is the row key used when none is configured.
const DefaultSnapshotName = "default"

// SnapshotStore implements student.SnapshotStore on one row of the snapshot table.
type SnapshotStore struct {
	conn  *Connection
	table string
	name  string
	log   *logger.Logger
}

var _ student.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore creates a store for the named snapshot in table.
func NewSnapshotStore(conn *Connection, table, name string, log *logger.Logger) *SnapshotStore {
	if table == "" {
		table = DefaultTable
	}
	if name == "" {
		name = DefaultSnapshotName
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotStore{
		conn:  conn,
		table: table,
		name:  name,
		log:   log.With(logger.Component("postgres_store"), logger.String("table", table), logger.String("snapshot", name)),
	}
}

// Location returns table/name.
func (s *SnapshotStore) Location() string {
	return fmt.Sprintf("postgres table %s, snapshot %s", s.table, s.name)
}

// Load reads the snapshot row. No row yields an empty snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (*student.Snapshot, error) {
	query := fmt.Sprintf("SELECT body::text FROM %s WHERE name = $1", pgx.Identifier{s.table}.Sanitize())

	var body string
	err := s.conn.Pool().QueryRow(ctx, query, s.name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Info("snapshot not found, starting with an empty collection")
			return &student.Snapshot{Students: []*student.Student{}, Missing: true}, nil
		}
		return nil, shared.ErrSnapshotRead.Wrap("select snapshot", err)
	}

	students, err := snapshot.Decode([]byte(body))
	if err != nil {
		s.log.Error("snapshot is corrupt", logger.Err(err))
		return nil, err
	}

	s.log.Debug("snapshot loaded", logger.Count(len(students)))
	return &student.Snapshot{Students: students}, nil
}

// Save upserts the snapshot row inside a transaction.
func (s *SnapshotStore) Save(ctx context.Context, students []*student.Student) error {
	data, err := snapshot.Encode(students)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (name, body, updated_at) VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		pgx.Identifier{s.table}.Sanitize())

	err = s.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query, s.name, string(data))
		return err
	})
	if err != nil {
		s.log.Error("snapshot save failed", logger.Err(err))
		return shared.ErrSnapshotWrite.Wrap("upsert snapshot", err)
	}

	s.log.Info("snapshot saved", logger.Count(len(students)))
	return nil
}
