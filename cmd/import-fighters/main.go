// Package main bulk-loads a YAML fighter roster into Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/colosseum/internal/config"
	"github.com/cory-johannsen/colosseum/internal/game/fighter"
	"github.com/cory-johannsen/colosseum/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	rosterDir := flag.String("roster", "", "roster directory (defaults to arena.roster_dir)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	dir := *rosterDir
	if dir == "" {
		dir = cfg.Arena.RosterDir
	}

	start := time.Now()
	fighters, err := fighter.LoadRoster(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewFighterRepository(pool.DB())
	imported, skipped := 0, 0
	for _, f := range fighters {
		err := repo.Create(ctx, f)
		switch {
		case errors.Is(err, postgres.ErrFighterExists):
			fmt.Printf("skipping %s: already exists\n", f.Name)
			skipped++
		case err != nil:
			fmt.Fprintf(os.Stderr, "error importing %s: %v\n", f.Name, err)
			os.Exit(1)
		default:
			imported++
		}
	}

	fmt.Printf("imported %d fighters (%d skipped) in %s\n",
		imported, skipped, time.Since(start).Round(time.Millisecond))
}
