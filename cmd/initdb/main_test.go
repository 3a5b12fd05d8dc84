package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseportal/internal/app/repositories/sqlite"
	"github.com/yigit/courseportal/internal/config"
	"github.com/yigit/courseportal/internal/seed"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "portal.db")
	return cfg
}

func TestRunCreatesSeededStore(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	require.NoError(t, run(ctx, cfg, options{}, zerolog.Nop()))

	store, err := sqlite.Open(cfg.Database.Path, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(ctx))
	n, err := store.CountCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seed.SampleCourses), n)
}

func TestRunReplacesCorruptFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Database.Path, []byte("definitely not an sqlite database file at all"), 0o600))

	require.NoError(t, run(context.Background(), cfg, options{noSeed: true}, zerolog.Nop()))
	assert.NoError(t, sqlite.Check(context.Background(), cfg.Database.Path))
}

func TestRunRejectsPostgres(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = config.DriverPostgres
	assert.Error(t, run(context.Background(), cfg, options{}, zerolog.Nop()))
}
