package config

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"DATABASE_URL":            "postgres://localhost/test",
		"PAYMENT_RECEIVER":        "http://localhost:9000",
		"BASE_NODE":               "localhost:18142",
		"CONSOLE_WALLET_PATH":     "/usr/local/bin/minotari_console_wallet",
		"CONSOLE_WALLET_PASSWORD": "secret",
	}
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func(k string) func() { return func() { _ = os.Unsetenv(k) } }(k))
	}
}

func TestLoad_SucceedsWithAllRequiredVars(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	assert.Equal(t, "0.0.0.0", cfg.ListenIP)
	assert.Equal(t, 9145, cfg.ListenPort)
	assert.Equal(t, 10, int(cfg.BatchCreator.SleepInterval.Seconds()))
	assert.Equal(t, 300, int(cfg.SignerLeaseTimeout.Seconds()))
}

func TestLoad_FailsWithoutRequiredVar(t *testing.T) {
	setRequiredEnv(t)
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	_, err := Load(context.Background())
	assert.Error(t, err)
}
