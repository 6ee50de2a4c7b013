package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"subtrack/internal/config"
	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
	pg "subtrack/internal/infra/db/postgres"
	"subtrack/internal/infra/db/sqlite"

	"github.com/google/uuid"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var subRepo repository.SubscriptionRepository
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("postgres schema: %v", err)
		}
		subRepo = pg.NewSubscriptionRepo(pool)
	default:
		store, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			log.Fatalf("sqlite: %v", err)
		}
		defer store.Close()
		subRepo = sqlite.NewSubscriptionRepo(store)
	}

	// If subscriptions already exist, do nothing
	count, err := subRepo.Count(ctx)
	if err != nil {
		log.Fatalf("count subscriptions: %v", err)
	}
	if count > 0 {
		fmt.Printf("%d subscriptions already present. No changes.\n", count)
		return
	}

	now := time.Now()
	seed := []struct {
		Name  string
		Price float64
		Cycle model.BillingCycle
		Days  int
		Color string
	}{
		{"Netflix", 15.49, model.CycleMonthly, 12, "#e50914"},
		{"Spotify", 11.99, model.CycleMonthly, 5, "#1db954"},
		{"iCloud+", 2.99, model.CycleMonthly, 21, model.DefaultColor},
	}

	for _, s := range seed {
		sub, err := model.NewSubscription(s.Name, s.Price, s.Cycle, model.NewDate(now.AddDate(0, 0, s.Days)), s.Color, "")
		if err != nil {
			log.Fatalf("build %q: %v", s.Name, err)
		}
		sub.ID = uuid.NewString()
		sub.CreatedAt = now
		if err := subRepo.Save(ctx, sub); err != nil {
			log.Fatalf("save %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s ($%.2f %s, next charge %s)\n", sub.Name, sub.Price, sub.Cycle, sub.NextDate)
	}

	fmt.Println("Seeding complete.")
}
