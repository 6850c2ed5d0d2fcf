package database

import (
	"assessment_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{
		Host:     "db.example.supabase.co",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		DBName:   "postgres",
		SSLMode:  "require",
		TimeZone: "UTC",
	})
	assert.Equal(t, "host=db.example.supabase.co port=5432 user=postgres password=secret dbname=postgres sslmode=require TimeZone=UTC", dsn)
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, rdb)
}
