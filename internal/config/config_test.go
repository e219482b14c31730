package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOOGLE_MAPS_API_KEY", "AIza-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Distance.Timeout)
	assert.True(t, cfg.Rating.VolumetricDivisor.Equal(decimal.NewFromInt(6000)))
	assert.True(t, cfg.Rating.PackageThresholdKg.Equal(decimal.RequireFromString("50.99")))
	assert.False(t, cfg.Rating.RulesStrict)
	assert.Empty(t, cfg.Rating.RulesFile)
	assert.Equal(t, time.Minute, cfg.Rating.RulesRefresh)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOOGLE_MAPS_API_KEY", "AIza-test")
	t.Setenv("RATELINE_KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RATELINE_DISTANCE_TIMEOUT", "750ms")
	t.Setenv("RATELINE_PACKAGE_THRESHOLD_KG", "30")
	t.Setenv("RATELINE_RULES_STRICT", "true")
	t.Setenv("RATELINE_VOLUMETRIC_DIVISOR", "not-a-number")
	t.Setenv("RATELINE_RULES_FILE", "/etc/rateline/rules.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 750*time.Millisecond, cfg.Distance.Timeout)
	assert.True(t, cfg.Rating.PackageThresholdKg.Equal(decimal.NewFromInt(30)))
	assert.True(t, cfg.Rating.RulesStrict)
	assert.Equal(t, "/etc/rateline/rules.yaml", cfg.Rating.RulesFile)
	assert.True(t, cfg.Rating.VolumetricDivisor.Equal(decimal.NewFromInt(6000)), "bad values fall back to the default")
}

func TestLoad_RequiresMapsKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("RATELINE_HTTP_ADDR=:9090\nRATELINE_CURRENCY=UGX\n"), 0o600))

	// unset for the duration of the test so .env may fill them; Setenv restores them afterwards
	for _, key := range []string{"RATELINE_HTTP_ADDR", "RATELINE_CURRENCY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("GOOGLE_MAPS_API_KEY", "AIza-test")
	t.Setenv("RATELINE_CURRENCY", "TZS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "TZS", cfg.Rating.Currency, "process env wins over .env")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
