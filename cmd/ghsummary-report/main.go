// ghsummary-report renders a contribution report for one user to stdout
//
// usage:
//
//	ghsummary-report <username>        all-time report
//	ghsummary-report <username> <year> single year report
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"ghsummary/internal/platform/config"
	"ghsummary/internal/platform/logger"
	"ghsummary/internal/platform/store"

	contribmod "ghsummary/internal/services/contrib/module"
	contribrepo "ghsummary/internal/services/contrib/repo"
	contribsvc "ghsummary/internal/services/contrib/service"
	"ghsummary/internal/services/report"

	"ghsummary/internal/adapters/github"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: ghsummary-report <username> [year]")
		os.Exit(2)
	}
	username := os.Args[1]

	_ = godotenv.Load()

	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "ghsummary-report",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := contribrepo.EnsureSchema(ctx, st.PG); err != nil {
		l.Panic().Err(err).Msg("schema setup failed")
	}

	o := contribmod.FromConfig(root)
	progress := contribmod.NewLogProgress()

	client := github.NewClient(github.Options{
		Endpoint:      o.APIURL,
		Token:         o.Token,
		UserAgent:     o.UserAgent,
		Timeout:       o.Timeout,
		WaitThreshold: o.WaitThreshold,
		WaitBuffer:    o.WaitBuffer,
		PageSize:      o.PageSize,
		MaxPages:      o.MaxPages,
	})
	storage := contribrepo.NewPG().Bind(st.PG)
	svc := contribsvc.New(
		github.NewSource(client, progress),
		github.NewLineCalculator(client, progress),
		storage,
		progress,
		contribsvc.Config{EarliestYear: o.EarliestYear},
	)

	render := report.New()

	if len(os.Args) == 3 {
		year, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid year %q\n", os.Args[2])
			os.Exit(2)
		}
		snap, err := svc.CachedReport(ctx, username, year)
		if err != nil {
			l.Fatal().Err(err).Msg("yearly report failed")
		}
		fmt.Print(render.Yearly(snap))
		return
	}

	agg, err := svc.AllTimeReport(ctx, username)
	if err != nil {
		l.Fatal().Err(err).Msg("all-time report failed")
	}
	fmt.Print(render.AllTime(agg))
}
