package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bizadmin/internal/config"
	"bizadmin/internal/ui"
	"bizadmin/internal/util/logx"
	"bizadmin/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("bizadmin", version.String())
		return
	}

	if cfg.LogFile != "-" {
		logx.SetFile(logx.FileOptions{Path: cfg.LogFile})
	}
	defer logx.Close()

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting bizadmin %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("bizadmin exited with error: %v", err)
		os.Exit(1)
	}
}
