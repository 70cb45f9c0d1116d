package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
)

// NewGormDB opens the application database from central config.
func NewGormDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return NewGormDBFromConfig(FromCentralConfig(cfg))
}

// NewGormDBFromConfig opens a pooled lib/pq connection and hands it to gorm.
func NewGormDBFromConfig(cfg Config) (*gorm.DB, error) {
	sqlDB, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         NewGormLogger(cfg),
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return db, nil
}

// NewGormLogger routes gorm's log through slog. Failed queries log at error
// and slow queries at warn; every query is logged only when database logging
// is enabled.
func NewGormLogger(cfg Config) gormlogger.Interface {
	level := gormlogger.Warn
	if cfg.EnableLogging {
		level = gormlogger.Info
	}
	threshold := time.Duration(cfg.SlowQueryThresholdMs) * time.Millisecond
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	return &slogGormLogger{level: level, slow: threshold}
}

type slogGormLogger struct {
	level gormlogger.LogLevel
	slow  time.Duration
}

func (l *slogGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	n := *l
	n.level = level
	return &n
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		slog.InfoContext(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		slog.WarnContext(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		slog.ErrorContext(ctx, fmt.Sprintf(msg, args...), "component", "gorm")
	}
}

func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		slog.ErrorContext(ctx, "gorm query failed",
			"component", "gorm", "error", err, "elapsed_ms", elapsed.Milliseconds(), "rows", rows, "sql", sql)
	case elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		slog.WarnContext(ctx, "gorm slow query",
			"component", "gorm", "elapsed_ms", elapsed.Milliseconds(), "threshold_ms", l.slow.Milliseconds(),
			"rows", rows, "sql", sql)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		slog.InfoContext(ctx, "gorm query",
			"component", "gorm", "elapsed_ms", elapsed.Milliseconds(), "rows", rows, "sql", sql)
	}
}

// ParamsFilter keeps bound values out of logged SQL.
func (l *slogGormLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

// Migrate creates or updates all tables and seeds the receipt counter from
// any receipts that already exist.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(schema.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var maxNumber int64
	if err := db.WithContext(ctx).
		Model(&schema.Receipt{}).
		Select("COALESCE(MAX(receipt_number), 0)").
		Scan(&maxNumber).Error; err != nil {
		return fmt.Errorf("read max receipt number: %w", err)
	}

	counter := schema.ReceiptCounter{Name: schema.ReceiptCounterName, Value: maxNumber}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counter).Error; err != nil {
		return fmt.Errorf("seed receipt counter: %w", err)
	}

	return nil
}

// Close releases the pool underneath a gorm handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
