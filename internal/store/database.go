package store

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"gitlab.com/dirk.krummacker/contactbook/internal/config"
	"gitlab.com/dirk.krummacker/contactbook/internal/store/migrations"
)

// Supported values of the database driver setting.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// pingTimeout is how long CreateDatabase waits for the first round trip.
const pingTimeout = 10 * time.Second

// DSN builds the data source name for the configured driver.
func DSN(cfg config.DatabaseConfig) (string, error) {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	switch cfg.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = hostPort
		mc.DBName = cfg.Name
		mc.ParseTime = true
		// Count matched instead of changed rows, an update that writes identical values must
		// not look like a missing contact.
		mc.ClientFoundRows = true
		return mc.FormatDSN(), nil
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     hostPort,
			Path:     "/" + cfg.Name,
			RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
		}
		return u.String(), nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// CreateDatabase opens the connection pool described by the configuration and checks that the
// database is reachable.
func CreateDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msgf(format, v...)
}

// gooseUp is replaced in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate brings the schema up to the latest version using the embedded migrations of the
// driver's dialect.
func Migrate(ctx context.Context, db *sql.DB, driver string, log zerolog.Logger) error {
	var dir string
	switch driver {
	case DriverMySQL:
		dir = "mysql"
	case DriverPostgres:
		dir = "postgres"
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log.With().Str("component", "migrations").Logger()})
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := gooseUp(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
