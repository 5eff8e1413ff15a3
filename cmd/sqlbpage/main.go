/*
Command sqlbpage loads one or more pages of an arbitrary SQL query and prints
each page as a JSON document with the items and the total row count.

	sqlbpage -config sqlbpage.yaml
	sqlbpage -config sqlbpage.yaml -print-config

Any config key may be overridden with SQLBPAGE_<KEY>, for example SQLBPAGE_DSN,
SQLBPAGE_DIALECT or SQLBPAGE_LOGGER_LEVEL.
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/overwin/sqlb"
	"github.com/overwin/sqlb/internal/config"
	"github.com/overwin/sqlb/internal/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "sqlbpage:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("sqlbpage", flag.ContinueOnError)
	flags.SetOutput(stderr)
	path := flags.String("config", "sqlbpage.yaml", "path to the YAML config file")
	printConfig := flags.Bool("print-config", false, "print the effective config and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	if *printConfig {
		return cfg.Dump(stdout)
	}

	logger.ApplyTimeFormat(&cfg.Logger)
	log, err := logger.New(&cfg.Logger, stderr)
	if err != nil {
		return err
	}
	log = log.With().Str("run_id", uuid.NewString()).Logger()

	driver, err := cfg.DriverName()
	if err != nil {
		return err
	}

	db, err := sqlb.Open(driver, cfg.DSN, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close connection")
		}
	}()

	first, err := cfg.Paginated()
	if err != nil {
		return err
	}

	pages, err := loadPages(ctx, db, first, cfg.Pages, cfg.Concurrency)
	if err != nil {
		log.Error().Err(err).Msg("failed to load pages")
		return err
	}

	log.Info().Int("pages", len(pages)).Msg("done")
	return writePages(stdout, pages)
}

type record = map[string]any

/*
Loads `count` consecutive pages starting at `first`, at most `concurrency` at a
time. Pages are returned in order; empty pages past the end are dropped.
*/
func loadPages(ctx context.Context, db sqlb.DB, first sqlb.Paginated, count, concurrency int) ([]sqlb.Page[record], error) {
	out := make([]sqlb.Page[record], count)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	next := first
	for ind := range out {
		query := next
		eg.Go(func() error {
			page, err := sqlb.LoadDB[record](ctx, db, query)
			if err != nil {
				return fmt.Errorf("page %d: %w", ind, err)
			}
			normalizeRecords(page.Items)
			out[ind] = page
			return nil
		})
		next = next.Next()
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return trimPages(out), nil
}

// Drops the trailing pages past the end of the result, keeping at least one.
func trimPages(pages []sqlb.Page[record]) []sqlb.Page[record] {
	for len(pages) > 1 && len(pages[len(pages)-1].Items) == 0 {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// Drivers return text columns as []byte, which JSON would encode as base64.
func normalizeRecords(items []record) {
	for _, rec := range items {
		for key, val := range rec {
			if bytes, ok := val.([]byte); ok {
				rec[key] = string(bytes)
			}
		}
	}
}

func writePages(out io.Writer, pages []sqlb.Page[record]) error {
	enc := json.NewEncoder(out)
	for _, page := range pages {
		if err := enc.Encode(page); err != nil {
			return fmt.Errorf("failed to encode page at offset %d: %w", page.Offset, err)
		}
	}
	return nil
}
