// Command seed loads demo data into the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"socialmedia/internal/config"
	"socialmedia/internal/database"
	"socialmedia/internal/seed"
)

func main() {
	fixtures := flag.Bool("fixtures", true, "Load the fixed demo set (3 users, 2 groups, 3 posts, 3 profiles)")
	numUsers := flag.Int("users", 0, "Number of extra generated users")
	numGroups := flag.Int("groups", 3, "Number of generated groups when -users is set")
	membership := flag.Int("membership", 40, "Chance in percent that a generated user joins each group")
	fakerSeed := flag.Int64("seed", 0, "Generator seed; 0 picks one from the clock")
	shouldClean := flag.Bool("clean", false, "Remove all social rows before seeding")
	flag.Parse()

	if err := run(*fixtures, *shouldClean, seed.RandomOptions{
		Users:         *numUsers,
		Groups:        *numGroups,
		MembershipPct: *membership,
		Seed:          *fakerSeed,
	}); err != nil {
		log.Fatal(err)
	}
}

func run(fixtures, clean bool, random seed.RandomOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if clean {
		if err := s.ClearAll(ctx); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		log.Println("social tables cleared")
	}

	if fixtures {
		set, err := s.Fixtures(ctx)
		if err != nil {
			return fmt.Errorf("fixture seeding failed: %w", err)
		}
		log.Printf("fixtures loaded: %d users, %d groups", len(set.Users), len(set.Groups))
	}

	if random.Users > 0 {
		if random.Seed == 0 {
			random.Seed = time.Now().UnixNano()
		}
		users, err := s.Random(ctx, random)
		if err != nil {
			return fmt.Errorf("random seeding failed: %w", err)
		}
		log.Printf("generated %d users (seed %d)", len(users), random.Seed)
	}

	return nil
}
