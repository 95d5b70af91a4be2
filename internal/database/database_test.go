package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestConnect_MongoDriverIsNotSQL(t *testing.T) {
	db, err := Connect(Config{Driver: "mongodb", ConnectionString: "mongodb://localhost:27017"})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestIsSQLDriver(t *testing.T) {
	assert.True(t, IsSQLDriver(DriverPostgres))
	assert.True(t, IsSQLDriver(DriverMySQL))
	assert.False(t, IsSQLDriver("mongodb"))
	assert.False(t, IsSQLDriver(""))
}

func TestConnectMongo_RequiresDatabase(t *testing.T) {
	client, db, err := ConnectMongo(context.Background(), MongoConfig{URI: "mongodb://localhost:27017"})
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Nil(t, db)
}
