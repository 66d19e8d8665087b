package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rohits-web03/referly/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLitePath = "referral_system.db"

// Dialector picks the gorm driver from the database URL scheme.
// An empty URL falls back to a local sqlite file; anything without a
// recognised scheme is handed to postgres as a DSN.
//
// sqlite URLs follow the SQLAlchemy layout the previous deployment used:
// sqlite:///rel.db is relative, sqlite:////abs.db is absolute and a bare
// sqlite:// is in-memory.
func Dialector(databaseURL string) gorm.Dialector {
	url := strings.TrimSpace(databaseURL)

	switch {
	case url == "":
		return sqlite.Open(defaultSQLitePath)
	case url == "sqlite://":
		return sqlite.Open(":memory:")
	case strings.HasPrefix(url, "sqlite:///"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite:///"))
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite:"))
	case strings.HasPrefix(url, "mysql://"):
		dsn := strings.TrimPrefix(url, "mysql://")
		if !strings.Contains(dsn, "parseTime=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		return mysql.Open(dsn)
	case strings.HasPrefix(url, "postgresql+"):
		// driver-qualified SQLAlchemy URLs, e.g. postgresql+psycopg2://
		_, rest, _ := strings.Cut(url, "://")
		return postgres.Open("postgres://" + rest)
	default:
		return postgres.Open(url)
	}
}

// ConnectDatabase opens the database and runs migrations.
func ConnectDatabase(databaseURL string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(databaseURL), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("Successfully connected to database")
	return db, nil
}

// Migrate creates the users and qrcodes tables if they are missing.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.QRCode{}); err != nil {
		return errors.Wrap(err, "migration failed")
	}
	return nil
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks the underlying connection pool.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
