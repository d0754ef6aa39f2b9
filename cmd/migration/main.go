package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/dirk.krummacker/contactbook/internal/config"
	"gitlab.com/dirk.krummacker/contactbook/internal/logger"
	"gitlab.com/dirk.krummacker/contactbook/internal/randomgen"
	"gitlab.com/dirk.krummacker/contactbook/internal/store"
)

// Usage example on the command line:
// > CONTACTS_DATABASE_HOST=localhost CONTACTS_DATABASE_USER=dirk CONTACTS_DATABASE_PASSWORD=bullo92 go run main.go -seed=100
func main() {
	seed := flag.Int("seed", 0, "number of random contacts to insert after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Primary)
	if err := run(context.Background(), cfg, *seed, log); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

func run(ctx context.Context, cfg *config.Config, seed int, log zerolog.Logger) error {
	db, err := store.CreateDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(ctx, db.DB, cfg.Database.Driver, log); err != nil {
		return err
	}
	log.Info().Msg("schema is up to date")

	if seed <= 0 {
		return nil
	}
	contacts, err := store.New(db)
	if err != nil {
		return err
	}
	defer contacts.Close()
	for i := 0; i < seed; i++ {
		if _, err := contacts.Insert(ctx, randomgen.Contact()); err != nil {
			return fmt.Errorf("seeding stopped after %d contacts: %w", i, err)
		}
	}
	log.Info().Int("contacts", seed).Msg("seeded random contacts")
	return nil
}
