package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparto-api/internal/infrastructure/postgres"
	"github.com/jhoicas/reparto-api/pkg/config"
)

func dbConfig() config.DBConfig {
	return config.DBConfig{
		Host: "db.local", Port: 5432, User: "reparto", Password: "secreto", DBName: "reparto", SSLMode: "disable",
		MaxConns: 20, MinConns: 3, ConnectTimeout: 2 * time.Second,
	}
}

func TestPoolConfig_TamanoYTimeoutDesdeConfig(t *testing.T) {
	pc, err := postgres.PoolConfig(dbConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(20), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 2*time.Second, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, "reparto-api", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_SinTamanoConservaElDelDSN(t *testing.T) {
	cfg := dbConfig()
	cfg.MaxConns, cfg.MinConns = 0, 0
	cfg.DatabaseURL = "postgres://u:p@db.local:5432/reparto?pool_max_conns=7&application_name=otro"

	pc, err := postgres.PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, "otro", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_ForzarIPv4(t *testing.T) {
	cfg := dbConfig()
	cfg.ForceIPv4 = true
	pc, err := postgres.PoolConfig(cfg)
	require.NoError(t, err)

	addrs, err := pc.ConnConfig.LookupFunc(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1"}, addrs)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	cfg := dbConfig()
	cfg.DatabaseURL = "postgres://u:p@host:notaport/db"
	_, err := postgres.PoolConfig(cfg)
	assert.Error(t, err)
}
