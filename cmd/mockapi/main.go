package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizadmin/internal/mockapi"
	"bizadmin/internal/util/logx"
)

func main() {
	var (
		addr     string
		shape    string
		seed     int
		ttlStr   string
		duration string
	)

	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&shape, "columns", "mapping", "column descriptor shape: mapping|strings|pairs|none")
	flag.IntVar(&seed, "seed", 35, "number of sample businesses")
	flag.StringVar(&ttlStr, "token-ttl", "15m", "access token lifetime (e.g. 30s, 15m)")
	flag.StringVar(&duration, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.Parse()
	logx.SetLevelFromEnv()

	kind, ok := mockapi.ParseShape(shape)
	if !ok {
		fmt.Fprintf(os.Stderr, "unsupported columns shape: %s\n", shape)
		os.Exit(2)
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid token-ttl: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if duration != "" {
		d, err := time.ParseDuration(duration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, d)
		defer stop()
	}

	srv := mockapi.New(mockapi.Options{Shape: kind, Seed: seed, TokenTTL: ttl})
	hs := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), 3*time.Second)
		defer done()
		_ = hs.Shutdown(shutdown)
	}()

	acc := mockapi.DefaultAccount()
	fmt.Fprintf(os.Stderr, "mock api on %s (columns=%s, %d businesses), sign in as %s / %s\n", addr, kind, seed, acc.Profile.Email, acc.Password)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
