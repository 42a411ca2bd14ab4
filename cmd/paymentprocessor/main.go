// Command paymentprocessor is the process entrypoint: loads configuration,
// wires the Supervisor, and runs until an OS signal requests shutdown.
// Grounded on the teacher's perf/cmd/root.go cobra+logrus wiring, adapted
// to run a long-lived service instead of a one-shot CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tari-project/minotari-payment-processor/internal/config"
	"github.com/tari-project/minotari-payment-processor/internal/log"
	"github.com/tari-project/minotari-payment-processor/internal/supervisor"
)

var rootCmd = &cobra.Command{
	Use:   "paymentprocessor",
	Short: "Minotari payment processor",
	Long:  "Drives payments from submission through batching, signing, and broadcast to on-chain confirmation.",
	RunE:  run,
}

func init() {
	viper.AutomaticEnv()

	level := logrus.InfoLevel
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = lvl
	}
	log.Init(level)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	sup, err := supervisor.New(ctx, cfg)
	if err != nil {
		return err
	}

	return sup.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
}
