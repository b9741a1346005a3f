package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()

	fileGW, err := NewFileGateway(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	sqliteGW, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	backends := map[string]Backend{
		"file":   fileGW,
		"sqlite": sqliteGW,
		"memory": NewMemoryGateway(),
	}
	t.Cleanup(func() {
		for _, b := range backends {
			_ = b.Close()
		}
	})
	return backends
}

func sampleState() types.GamificationState {
	return types.GamificationState{
		SchemaVersion:          1,
		XP:                     250,
		UnlockedAchievements:   []types.AchievementID{"first_optimization", "headline_hero"},
		OptimizationsCompleted: 3,
		SuggestionsAccepted:    2,
		TotalScoreImprovement:  15,
	}
}

func TestGateways_LoadMissingReturnsNil(t *testing.T) {
	for name, gw := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			state, err := gw.Load(context.Background(), uuid.New())
			require.NoError(t, err)
			assert.Nil(t, state)
		})
	}
}

func TestGateways_SaveThenLoad(t *testing.T) {
	for name, gw := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := uuid.New()

			require.NoError(t, gw.Save(ctx, userID, sampleState()))
			loaded, err := gw.Load(ctx, userID)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, sampleState(), *loaded)
		})
	}
}

func TestGateways_SaveOverwrites(t *testing.T) {
	for name, gw := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := uuid.New()

			require.NoError(t, gw.Save(ctx, userID, sampleState()))
			updated := sampleState()
			updated.XP = 410
			require.NoError(t, gw.Save(ctx, userID, updated))

			loaded, err := gw.Load(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, 410, loaded.XP)
		})
	}
}

func TestGateways_UsersAreIsolated(t *testing.T) {
	for name, gw := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			alice, bob := uuid.New(), uuid.New()

			require.NoError(t, gw.Save(ctx, alice, sampleState()))
			loaded, err := gw.Load(ctx, bob)
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestLoadOrNew(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()

	state, err := LoadOrNew(ctx, gw, LocalUser)
	require.NoError(t, err)
	assert.Equal(t, types.NewGamificationState(), state)

	require.NoError(t, gw.Save(ctx, LocalUser, sampleState()))
	state, err = LoadOrNew(ctx, gw, LocalUser)
	require.NoError(t, err)
	assert.Equal(t, 250, state.XP)
}

func TestMemoryGateway_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	require.NoError(t, gw.Save(ctx, LocalUser, sampleState()))

	loaded, err := gw.Load(ctx, LocalUser)
	require.NoError(t, err)
	loaded.UnlockedAchievements[0] = "tampered"

	again, err := gw.Load(ctx, LocalUser)
	require.NoError(t, err)
	assert.Equal(t, types.AchievementID("first_optimization"), again.UnlockedAchievements[0])
}

func TestFileGateway_NewerVersionOnDisk(t *testing.T) {
	dir := t.TempDir()
	gw, err := NewFileGateway(dir)
	require.NoError(t, err)

	userID := uuid.New()
	path := filepath.Join(dir, userID.String()+".json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": 9}`), 0o644))

	_, err = gw.Load(context.Background(), userID)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestFileGateway_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	gw, err := NewFileGateway(dir)
	require.NoError(t, err)
	require.NoError(t, gw.Save(context.Background(), LocalUser, sampleState()))

	matches, err := filepath.Glob(filepath.Join(dir, ".state-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileGateway_ConcurrentSaves(t *testing.T) {
	gw, err := NewFileGateway(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(xp int) {
			defer wg.Done()
			state := sampleState()
			state.XP = xp
			assert.NoError(t, gw.Save(ctx, LocalUser, state))
		}(i * 100)
	}
	wg.Wait()

	loaded, err := gw.Load(ctx, LocalUser)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 0, loaded.XP%100)
}

func TestNewFileGateway_EmptyDir(t *testing.T) {
	_, err := NewFileGateway("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.Config
		want    any
		wantErr bool
	}{
		{name: "file", cfg: config.Config{Store: config.StoreFile, StateDir: filepath.Join(tmp, "s")}, want: &FileGateway{}},
		{name: "sqlite", cfg: config.Config{Store: config.StoreSQLite, SQLitePath: filepath.Join(tmp, "s.db")}, want: &SQLiteGateway{}},
		{name: "memory", cfg: config.Config{Store: config.StoreMemory}, want: &MemoryGateway{}},
		{name: "postgres is not local", cfg: config.Config{Store: config.StorePostgres}, wantErr: true},
		{name: "unknown", cfg: config.Config{Store: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := Open(ctx, &tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer backend.Close()
			assert.IsType(t, tt.want, backend)
		})
	}
}
