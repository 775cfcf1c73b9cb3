package postgres

import (
	"testing"

	"github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(&cfg.PGDBCfg{
		Host:     "db",
		Port:     "5432",
		User:     "sync",
		Password: "p@ss word/1",
		DBName:   "marketplace",
		SSLMode:  "disable",
	})

	require.Equal(t, "postgres://sync:p%40ss%20word%2F1@db:5432/marketplace?sslmode=disable", dsn)

	connCfg, err := pgx.ParseConfig(dsn)
	require.NoError(t, err)
	require.Equal(t, "db", connCfg.Host)
	require.Equal(t, uint16(5432), connCfg.Port)
	require.Equal(t, "sync", connCfg.User)
	require.Equal(t, "p@ss word/1", connCfg.Password)
	require.Equal(t, "marketplace", connCfg.Database)
}
