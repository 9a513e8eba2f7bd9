package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SphoenixAI/image-verse-quest/internal/config"
)

func TestDriverName(t *testing.T) {
	assert.Equal(t, "sqlite", driverName(""))
	assert.Equal(t, "sqlite", driverName("sqlite"))
	assert.Equal(t, "mysql", driverName("mysql"))
}

func TestSqliteDSN(t *testing.T) {
	// 内存库不加参数
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN("file::memory:?cache=shared"))

	// 文件库补全busy_timeout和外键参数
	dsn := sqliteDSN("test.db")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_foreign_keys=on")

	// 已有参数不重复追加
	dsn = sqliteDSN("test.db?_busy_timeout=1000")
	assert.Contains(t, dsn, "_busy_timeout=1000")
	assert.NotContains(t, dsn, "_busy_timeout=5000")

	// 缺省路径
	assert.Contains(t, sqliteDSN(""), "imageverse.db")
}

func TestPoolSettings(t *testing.T) {
	// 未配置时取默认值
	maxIdle, maxOpen, lifetime := poolSettings(&config.DatabaseConfig{})
	assert.Equal(t, defaultMaxIdleConns, maxIdle)
	assert.Equal(t, defaultMaxOpenConns, maxOpen)
	assert.Equal(t, defaultConnMaxLifetime, lifetime)

	// 显式配置优先
	maxIdle, maxOpen, lifetime = poolSettings(&config.DatabaseConfig{
		MaxIdleConns:    2,
		MaxOpenConns:    8,
		ConnMaxLifetime: 10 * time.Minute,
	})
	assert.Equal(t, 2, maxIdle)
	assert.Equal(t, 8, maxOpen)
	assert.Equal(t, 10*time.Minute, lifetime)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, parseLogLevel("error"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel("warn"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel(""))
}

func TestInitSqliteDefaults(t *testing.T) {
	// 驱动留空走SQLite，内存库验证连接和连接池默认值
	cfg := &config.DatabaseConfig{
		DSN:      ":memory:",
		LogLevel: "silent",
	}
	err := Init(cfg)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, Close())
		DB = nil
	}()

	assert.True(t, IsConnected())

	sqlDB, err := GetDB().DB()
	require.NoError(t, err)
	stats := sqlDB.Stats()
	assert.Equal(t, defaultMaxOpenConns, stats.MaxOpenConnections)
}

func TestInitUnknownDriver(t *testing.T) {
	err := Init(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
