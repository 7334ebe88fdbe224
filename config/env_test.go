package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesMergesJSONThenDotEnv(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"db_driver":"mongo","rate_limit":50,"app_port":"9000"}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nexport APP_PORT=\"9100\"\nMONGO_DATABASE='loja'\n"), 0o644))

	t.Cleanup(Reset)
	require.NoError(t, loadFromFiles(jsonPath, envPath))
	loadOnce.Do(func() {}) // keep Load from re-reading the real files

	assert.Equal(t, "mongo", DatabaseDriver())
	assert.Equal(t, "9100", AppPort())
	assert.Equal(t, "loja", MongoDatabase())
	assert.Equal(t, 50, RateLimit())
}

func TestMissingFilesFallBackToDefaults(t *testing.T) {
	t.Cleanup(Reset)
	require.NoError(t, loadFromFiles("does/not/exist.json", "does/not/.env"))
	loadOnce.Do(func() {})

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Equal(t, "plain", PasswordHasher())
	assert.Equal(t, defaultDBTimeout, DatabaseTimeout())
}

func TestDriverAliasesAndUnknownValues(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	loadOnce.Do(func() {})

	Set("DB_DRIVER", "MongoDB")
	assert.Equal(t, "mongo", DatabaseDriver())
	assert.Equal(t, MongoURI(), DatabaseDSN())

	Set("DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver())
}

func TestDurationParsing(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	loadOnce.Do(func() {})

	Set("DB_TIMEOUT", "250ms")
	assert.Equal(t, 250*time.Millisecond, DatabaseTimeout())

	Set("DB_TIMEOUT", "3")
	assert.Equal(t, 3*time.Second, DatabaseTimeout())

	Set("DB_TIMEOUT", "soon")
	assert.Equal(t, defaultDBTimeout, DatabaseTimeout())
}

func TestPasswordHasherAndRateLimitDriver(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	loadOnce.Do(func() {})

	Set("PASSWORD_HASHER", "BCRYPT")
	Set("RATE_LIMIT_DRIVER", "redis")
	assert.Equal(t, "bcrypt", PasswordHasher())
	assert.Equal(t, "redis", RateLimitDriver())

	Set("PASSWORD_HASHER", "sha1")
	assert.Equal(t, "plain", PasswordHasher())
}

func TestTrustProxyHeaders(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	loadOnce.Do(func() {})

	assert.False(t, TrustProxyHeaders())

	Set("TRUST_PROXY_HEADERS", "true")
	assert.True(t, TrustProxyHeaders())

	Set("TRUST_PROXY_HEADERS", "maybe")
	assert.False(t, TrustProxyHeaders())
}
