package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"nexus/internal/config"
	"nexus/internal/domain"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 10 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open connects to the primary store described by cfg, verifies the
// connection and migrates the schema.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if cfg.IsPostgres() {
		log.Println("[STORE] Connecting to PostgreSQL database...")
		dialector = postgres.Open(cfg.GetPostgresDSN())
	} else {
		log.Println("[STORE] Connecting to SQLite database...")
		d, err := sqliteDialector(cfg.GetSQLitePath())
		if err != nil {
			return nil, err
		}
		dialector = d
	}

	db, err := openDialector(dialector)
	if err != nil {
		return nil, err
	}

	if cfg.IsPostgres() {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
		sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
		log.Printf("[STORE] Connection pool configured: maxOpen=%d, maxIdle=%d", maxOpenConns, maxIdleConns)
	}

	if err := prepare(db); err != nil {
		return nil, err
	}
	log.Println("[STORE] Database connected and migrated successfully")
	return db, nil
}

// OpenSQLite opens a SQLite database at path on the pure Go driver. An
// in-memory path is pinned to a single connection so every query sees the
// same database.
func OpenSQLite(path string) (*gorm.DB, error) {
	d, err := sqliteDialector(path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		d.Conn.(*sql.DB).SetMaxOpenConns(1)
	}
	db, err := openDialector(d)
	if err != nil {
		return nil, err
	}
	if err := prepare(db); err != nil {
		return nil, err
	}
	return db, nil
}

func sqliteDialector(path string) (sqlite.Dialector, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return sqlite.Dialector{}, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
		Conn:       sqlDB,
	}, nil
}

func openDialector(dialector gorm.Dialector) (*gorm.DB, error) {
	// SQL logging stays silent so inquiry contents never reach the logs
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func prepare(db *gorm.DB) error {
	if err := ping(db); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	if err := db.AutoMigrate(&domain.Inquiry{}, &domain.NotificationConfig{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func ping(db *gorm.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return pingContext(ctx, db)
}

func pingContext(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Close releases the connections held by db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
