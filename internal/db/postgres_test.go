package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseportal/internal/config"
)

func postgresConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverPostgres
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.User = "portal"
	cfg.Database.Password = "secret"
	cfg.Database.DBName = "courseportal"
	cfg.Database.MaxOpenConns = 8
	cfg.Database.MaxIdleConns = 2
	cfg.Database.ConnMaxLifetime = "30m"
	return cfg
}

func TestPoolConfig(t *testing.T) {
	poolConfig, err := PoolConfig(postgresConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, 30*time.Minute, poolConfig.MaxConnLifetime)
	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, "courseportal", poolConfig.ConnConfig.Database)
}

func TestPoolConfigClampsIdleConns(t *testing.T) {
	cfg := postgresConfig()
	cfg.Database.MaxIdleConns = 20

	poolConfig, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), poolConfig.MinConns)
}

func TestPoolConfigRejectsBadLifetime(t *testing.T) {
	cfg := postgresConfig()
	cfg.Database.ConnMaxLifetime = "forever"

	_, err := PoolConfig(cfg)
	require.Error(t, err)
}
