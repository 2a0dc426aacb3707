package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio"
	"github.com/eringen/folio/catalog"
)

func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return folio.EnvOr("FOLIO_CONFIG", "folio.toml")
}

func runServe(args []string) error {
	cfg, err := folio.LoadConfig(configPath(args))
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = folio.MustEnv("SESSION_SECRET")
	}
	app := folio.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serveUntil(ctx, app)
}

// serveUntil runs app until ctx is done, then shuts it down gracefully.
func serveUntil(ctx context.Context, app *folio.App) error {
	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := app.Echo.Shutdown(shutdownCtx)
	// Start closes the page registry and the preference database on return.
	return errors.Join(err, <-errc)
}

// runCheck loads both collections the way a page does and reports what it
// found, so a broken data file shows up before deploying.
func runCheck(args []string, out io.Writer) error {
	cfg, err := folio.LoadConfig(configPath(args))
	if err != nil {
		return err
	}
	if cfg.DataURL == "" {
		cfg.DataURL = "data"
	}
	src := catalog.NewSource(cfg.DataURL)
	cols := catalog.DefaultCollections

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		ws []catalog.Writeup
		ps []catalog.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ws, err = catalog.Load[catalog.Writeup](gctx, src, cols.Writeups)
		return err
	})
	g.Go(func() error {
		var err error
		ps, err = catalog.Load[catalog.Post](gctx, src, cols.Posts)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	platforms := make(map[string]struct{})
	var missingIDs, badDates int
	for _, w := range ws {
		platforms[w.Platform] = struct{}{}
		if w.ID == "" {
			missingIDs++
		}
		if _, ok := catalog.ParseDate(w.Date); !ok {
			badDates++
		}
	}
	fmt.Fprintf(out, "write-ups: %d (%d platforms)\n", len(ws), len(platforms))
	fmt.Fprintf(out, "posts:     %d\n", len(ps))
	if missingIDs > 0 {
		fmt.Fprintf(out, "warning: %d write-ups have no id and cannot open a detail view\n", missingIDs)
	}
	if badDates > 0 {
		fmt.Fprintf(out, "warning: %d write-up dates do not parse and will be shown verbatim\n", badDates)
	}
	return nil
}
