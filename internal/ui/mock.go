package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"bizadmin/internal/config"
	"bizadmin/internal/mockapi"
	"bizadmin/internal/util/logx"
)

// startMock serves the in-memory API on a loopback port and points cfg at
// it. The returned func shuts the server down.
func startMock(ctx context.Context, cfg *config.Config) (func(), error) {
	shape, ok := mockapi.ParseShape(cfg.MockShape)
	if !ok {
		return nil, fmt.Errorf("unknown mock column shape %q", cfg.MockShape)
	}
	srv := mockapi.New(mockapi.Options{Shape: shape, Seed: 35})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("mock listen: %w", err)
	}
	hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Errorf("mock: %v", err)
		}
	}()
	cfg.APIURL = "http://" + ln.Addr().String()
	logx.Infof("mock: serving %s (columns=%s)", cfg.APIURL, shape)
	acc := mockapi.DefaultAccount()
	logx.Infof("mock: sign in with %s / %s", acc.Profile.Email, acc.Password)
	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = hs.Shutdown(sctx)
	}, nil
}
