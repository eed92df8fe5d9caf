package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to open the MySQL connection pool.
type Config struct {
	DSN          string
	Timeout      time.Duration
	MaxOpenConns int
	MaxIdleConns int
}

// Connect opens a GORM handle, verifies connectivity with a ping, and returns
// it. Driver errors for duplicate keys and foreign keys are translated into
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema. Roles come first so the account
// foreign key can reference them.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&roleModel{}, &accountModel{}, &snippetModel{}); err != nil {
		return fmt.Errorf("mysql migrate: %w", err)
	}
	return nil
}

// SeedSystemRoles makes sure every system role exists and is marked
// immutable. It is safe to run on every boot.
func SeedSystemRoles(ctx context.Context, db *gorm.DB) error {
	for _, name := range domain.SystemRoles {
		var m roleModel
		err := db.WithContext(ctx).
			Where(roleModel{Name: name.String()}).
			Attrs(roleModel{Immutable: true}).
			FirstOrCreate(&m).Error
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		if !m.Immutable {
			if err := db.WithContext(ctx).Model(&m).Update("immutable", true).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
