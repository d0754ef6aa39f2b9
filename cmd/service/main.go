package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gitlab.com/dirk.krummacker/contactbook/internal/config"
	"gitlab.com/dirk.krummacker/contactbook/internal/logger"
	"gitlab.com/dirk.krummacker/contactbook/internal/service"
	"gitlab.com/dirk.krummacker/contactbook/internal/store"
)

// Usage example on the command line:
// > CONTACTS_SERVER_PORT=8080 CONTACTS_DATABASE_USER=dirk CONTACTS_DATABASE_PASSWORD=bullo92 CONTACTS_PRIMARY_ENV=production go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Primary)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("contacts service stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.CreateDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("driver", cfg.Database.Driver).Str("host", cfg.Database.Host).Msg("connected to the database")

	contacts, err := store.New(db)
	if err != nil {
		return err
	}
	defer contacts.Close()

	location, err := time.LoadLocation(cfg.Birthdays.Timezone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}
	if cfg.Primary.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := service.SetupHttpRouter(contacts, log, service.Options{
		RequestLogging: cfg.Server.RequestLogging,
		BirthdayWindow: cfg.Birthdays.WindowDays,
		Location:       location,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
