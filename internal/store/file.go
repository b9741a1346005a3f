package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// lockRetryDelay is how often a blocked caller retries the file lock.
const lockRetryDelay = 25 * time.Millisecond

// FileGateway stores one JSON document per user in a directory. Writes go to a
// temporary file that is renamed into place under an exclusive file lock, so
// concurrent processes never observe a partial state.
type FileGateway struct {
	dir string
}

// NewFileGateway creates the directory if needed and returns a gateway rooted at it.
func NewFileGateway(dir string) (*FileGateway, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}
	return &FileGateway{dir: dir}, nil
}

// Dir returns the directory the gateway writes to.
func (f *FileGateway) Dir() string {
	return f.dir
}

func (f *FileGateway) path(userID uuid.UUID) string {
	return filepath.Join(f.dir, userID.String()+".json")
}

// Load reads the user's state under a shared lock.
func (f *FileGateway) Load(ctx context.Context, userID uuid.UUID) (*types.GamificationState, error) {
	path := f.path(userID)
	lock := flock.New(path + ".lock")
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock state file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock state file %s", path)
	}
	defer lock.Unlock() //nolint:errcheck

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}
	return Decode(data)
}

// Save writes the user's state atomically under an exclusive lock.
func (f *FileGateway) Save(ctx context.Context, userID uuid.UUID, state types.GamificationState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	path := f.path(userID)
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock state file: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock state file %s", path)
	}
	defer lock.Unlock() //nolint:errcheck

	tmp, err := os.CreateTemp(f.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace state file %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; locks are held only for the duration of a call.
func (f *FileGateway) Close() error {
	return nil
}
