package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// DefaultHistoryLimit caps ListScoreHistory when no limit is given.
const DefaultHistoryLimit = 50

// History records analyzed scores per user.
type History interface {
	RecordScore(ctx context.Context, userID uuid.UUID, score types.ProfileScore, xpAwarded int) (uuid.UUID, error)
	ListScoreHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ScoreRecord, error)
}

// HistoryFor returns backend's own history when it keeps one, or a fresh
// in-memory history otherwise.
func HistoryFor(backend Gateway) History {
	if h, ok := backend.(History); ok {
		return h
	}
	return NewMemoryHistory()
}

// MemoryHistory keeps score history in memory.
type MemoryHistory struct {
	mu      sync.Mutex
	records map[uuid.UUID][]types.ScoreRecord
	now     func() time.Time
}

// NewMemoryHistory creates an empty history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		records: make(map[uuid.UUID][]types.ScoreRecord),
		now:     time.Now,
	}
}

// RecordScore appends a record for userID.
func (h *MemoryHistory) RecordScore(_ context.Context, userID uuid.UUID, score types.ProfileScore, xpAwarded int) (uuid.UUID, error) {
	record := types.ScoreRecord{
		ID:            uuid.New(),
		UserID:        userID,
		Overall:       score.Overall,
		SectionScores: score.SectionScores(),
		XPAwarded:     xpAwarded,
		CreatedAt:     h.now().UTC(),
	}

	h.mu.Lock()
	h.records[userID] = append(h.records[userID], record)
	h.mu.Unlock()
	return record.ID, nil
}

// ListScoreHistory returns up to limit records for userID, newest first.
func (h *MemoryHistory) ListScoreHistory(_ context.Context, userID uuid.UUID, limit int) ([]types.ScoreRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	h.mu.Lock()
	records := append([]types.ScoreRecord(nil), h.records[userID]...)
	h.mu.Unlock()

	// Records are appended in insertion order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
