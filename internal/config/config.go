// Package config loads the payment processor's configuration from the
// environment, the same environment-first approach the teacher's
// perf/cmd/root.go takes with viper (SetEnvPrefix + AutomaticEnv), adapted
// here to read unprefixed variable names as spec §6/§7 names them.
package config

import (
	"context"
	"time"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/spf13/viper"

	"github.com/tari-project/minotari-payment-processor/internal/msgs"
)

// WorkerConfig is the sleep-interval configuration shared by every worker
// loop (spec §6: "per-worker *_SLEEP_SECS (default 10)").
type WorkerConfig struct {
	SleepInterval time.Duration
}

// Config is the fully resolved, validated configuration for one process.
type Config struct {
	DatabaseURL           string
	PaymentReceiverURL    string
	BaseNodeURL           string
	ConsoleWalletPath     string
	ConsoleWalletPassword string

	ListenIP   string
	ListenPort int

	BatchCreator        WorkerConfig
	UnsignedTxCreator   WorkerConfig
	TransactionSigner   WorkerConfig
	Broadcaster         WorkerConfig
	ConfirmationChecker WorkerConfig
	SignerLeaseTimeout  time.Duration
	BatchCreatorLimit   int
}

const defaultSleepSecs = 10

// Load reads environment variables into a Config, applying the defaults
// spec §6 specifies, and fails fast (spec §6: DATABASE_URL, PAYMENT_RECEIVER,
// BASE_NODE, CONSOLE_WALLET_PATH, CONSOLE_WALLET_PASSWORD are required).
func Load(ctx context.Context) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_IP", "0.0.0.0")
	v.SetDefault("LISTEN_PORT", 9145)
	v.SetDefault("BATCH_CREATOR_SLEEP_SECS", defaultSleepSecs)
	v.SetDefault("UNSIGNED_TX_CREATOR_SLEEP_SECS", defaultSleepSecs)
	v.SetDefault("TRANSACTION_SIGNER_SLEEP_SECS", defaultSleepSecs)
	v.SetDefault("BROADCASTER_SLEEP_SECS", defaultSleepSecs)
	v.SetDefault("CONFIRMATION_CHECKER_SLEEP_SECS", defaultSleepSecs)
	v.SetDefault("SIGNER_LEASE_TIMEOUT_SECS", 300)
	v.SetDefault("BATCH_CREATOR_LIMIT", 100)

	cfg := &Config{
		DatabaseURL:           v.GetString("DATABASE_URL"),
		PaymentReceiverURL:    v.GetString("PAYMENT_RECEIVER"),
		BaseNodeURL:           v.GetString("BASE_NODE"),
		ConsoleWalletPath:     v.GetString("CONSOLE_WALLET_PATH"),
		ConsoleWalletPassword: v.GetString("CONSOLE_WALLET_PASSWORD"),
		ListenIP:              v.GetString("LISTEN_IP"),
		ListenPort:            v.GetInt("LISTEN_PORT"),
		BatchCreatorLimit:     v.GetInt("BATCH_CREATOR_LIMIT"),
	}
	cfg.BatchCreator = WorkerConfig{SleepInterval: secs(v, "BATCH_CREATOR_SLEEP_SECS")}
	cfg.UnsignedTxCreator = WorkerConfig{SleepInterval: secs(v, "UNSIGNED_TX_CREATOR_SLEEP_SECS")}
	cfg.TransactionSigner = WorkerConfig{SleepInterval: secs(v, "TRANSACTION_SIGNER_SLEEP_SECS")}
	cfg.Broadcaster = WorkerConfig{SleepInterval: secs(v, "BROADCASTER_SLEEP_SECS")}
	cfg.ConfirmationChecker = WorkerConfig{SleepInterval: secs(v, "CONFIRMATION_CHECKER_SLEEP_SECS")}
	cfg.SignerLeaseTimeout = secs(v, "SIGNER_LEASE_TIMEOUT_SECS")

	for name, val := range map[string]string{
		"DATABASE_URL":             cfg.DatabaseURL,
		"PAYMENT_RECEIVER":         cfg.PaymentReceiverURL,
		"BASE_NODE":                cfg.BaseNodeURL,
		"CONSOLE_WALLET_PATH":      cfg.ConsoleWalletPath,
		"CONSOLE_WALLET_PASSWORD":  cfg.ConsoleWalletPassword,
	} {
		if val == "" {
			return nil, i18n.NewError(ctx, msgs.MsgMissingConfig, name)
		}
	}

	return cfg, nil
}

func secs(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}
