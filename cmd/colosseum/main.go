// Package main provides the colosseum CLI for managing fighters and battles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colosseum/internal/arena"
	"github.com/cory-johannsen/colosseum/internal/config"
	"github.com/cory-johannsen/colosseum/internal/observability"
	"github.com/cory-johannsen/colosseum/internal/render"
	"github.com/cory-johannsen/colosseum/internal/storage/postgres"
)

const usage = `usage: colosseum [-config <path>] <command> [args]

commands:
  fighter list              list all fighters
  fighter show <name>       show one fighter's stat block
  battle create <f1> <f2>   schedule a battle between two fighters
  battle run <id>           run one pending battle
  battle run --all          run every pending battle
  battle list               list all battles
  battle pending            list pending battles
  battle watch <id>         print a completed battle's event log
  battle replay <id>        re-simulate a battle and verify the stored log
  clean                     delete all stored battles
`

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	fighters := postgres.NewFighterRepository(pool.DB())
	battles := postgres.NewBattleRepository(pool.DB())
	a := arena.New(fighters, battles, cfg.Arena.MaxTurns, logger)

	if err := dispatch(ctx, args, fighters, a); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, args []string, fighters *postgres.FighterRepository, a *arena.Arena) error {
	switch args[0] {
	case "fighter":
		return fighterCmd(ctx, args[1:], fighters)
	case "battle":
		return battleCmd(ctx, args[1:], a)
	case "clean":
		return a.Clean(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func fighterCmd(ctx context.Context, args []string, fighters *postgres.FighterRepository) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: colosseum fighter <list|show>")
	}
	switch args[0] {
	case "list":
		all, err := fighters.List(ctx)
		if err != nil {
			return err
		}
		for _, f := range all {
			fmt.Printf("%-20s %4d HP  attack %+d  defense %+d  heal %d  abilities %d\n",
				f.Name, f.Health, f.BaseAttack, f.BaseDefense, f.HealDelta, len(f.Abilities))
		}
		return nil
	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: colosseum fighter show <name>")
		}
		f, err := fighters.GetByName(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", f.Name)
		fmt.Printf("  health:  %d\n", f.Health)
		fmt.Printf("  attack:  %+d\n", f.BaseAttack)
		fmt.Printf("  defense: %+d\n", f.BaseDefense)
		fmt.Printf("  heal:    %d\n", f.HealDelta)
		fmt.Printf("  behavior: attack %.2f, heal %.2f, abilities %v\n",
			f.Behavior.AttackChance, f.Behavior.HealChance, f.Behavior.AbilityChances)
		for _, ab := range f.Abilities {
			fmt.Printf("  ability: %s %v\n", ab.Name, ab.Effect)
		}
		return nil
	default:
		return fmt.Errorf("unknown fighter command %q", args[0])
	}
}

func battleCmd(ctx context.Context, args []string, a *arena.Arena) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: colosseum battle <create|run|list|pending|watch|replay>")
	}
	switch args[0] {
	case "create":
		if len(args) != 3 {
			return fmt.Errorf("usage: colosseum battle create <fighter1> <fighter2>")
		}
		rec, err := a.CreateBattle(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("battle %s scheduled: %s vs %s\n", rec.ID, rec.Fighter1, rec.Fighter2)
		return nil
	case "run":
		if len(args) != 2 {
			return fmt.Errorf("usage: colosseum battle run <id|--all>")
		}
		if args[1] == "--all" {
			done, err := a.RunPending(ctx)
			for _, rec := range done {
				fmt.Printf("battle %s: %s\n", rec.ID, rec.Winner)
			}
			return err
		}
		rec, err := a.RunBattle(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Print(render.Events(rec.Events))
		return nil
	case "list":
		all, err := a.ListBattles(ctx)
		if err != nil {
			return err
		}
		for _, rec := range all {
			fmt.Printf("%s  %s\n", rec.ID, render.Summary(rec.Fighter1, rec.Fighter2, rec.Winner, rec.Completed))
		}
		return nil
	case "pending":
		pending, err := a.ListPendingBattles(ctx)
		if err != nil {
			return err
		}
		for _, rec := range pending {
			fmt.Printf("%s  %s vs %s  created %s\n",
				rec.ID, rec.Fighter1, rec.Fighter2, rec.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	case "watch":
		if len(args) != 2 {
			return fmt.Errorf("usage: colosseum battle watch <id>")
		}
		rec, err := a.WatchBattle(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Print(render.Events(rec.Events))
		return nil
	case "replay":
		if len(args) != 2 {
			return fmt.Errorf("usage: colosseum battle replay <id>")
		}
		events, err := a.Replay(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Print(render.Events(events))
		fmt.Println("replay matches stored log")
		return nil
	default:
		return fmt.Errorf("unknown battle command %q", args[0])
	}
}
