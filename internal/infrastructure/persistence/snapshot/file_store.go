package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// DefaultFileName is the snapshot file used when none is configured.
const DefaultFileName = "student_data.json"

const filePerm = 0o644

// FileStore keeps the snapshot in a single file on disk.
//
// Saves write a temporary file next to the target, fsync it, and rename it
// into place, so a failed save leaves the previous snapshot intact.
type FileStore struct {
	path string
	log  *logger.Logger
}

var _ student.SnapshotStore = (*FileStore)(nil)

// NewFileStore creates a store for path. An empty path means DefaultFileName.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	if path == "" {
		path = DefaultFileName
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FileStore{
		path: path,
		log:  log.With(logger.Component("file_store"), logger.Location(path)),
	}
}

// Location returns the snapshot path.
func (s *FileStore) Location() string {
	return s.path
}

// Load reads and decodes the snapshot file.
func (s *FileStore) Load(ctx context.Context) (*student.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("snapshot not found, starting with an empty collection")
			return &student.Snapshot{Students: []*student.Student{}, Missing: true}, nil
		}
		return nil, shared.ErrSnapshotRead.Wrap("failed to read "+s.path, err)
	}

	students, err := Decode(data)
	if err != nil {
		s.log.Error("snapshot is corrupt", logger.Err(err))
		return nil, err
	}

	s.log.Debug("snapshot loaded", logger.Count(len(students)))
	return &student.Snapshot{Students: students}, nil
}

// Save atomically replaces the snapshot file with students.
func (s *FileStore) Save(ctx context.Context, students []*student.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	data, err := Encode(students)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		s.log.Error("snapshot save failed", logger.Err(err))
		return shared.ErrSnapshotWrite.Wrap("failed to write "+s.path, err)
	}

	s.log.Info("snapshot saved", logger.Count(len(students)), logger.Latency(time.Since(start)))
	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(filePerm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
