package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const startKey = "query_monitor:start"

// QueryObserver receives the timing of every statement gorm executes
type QueryObserver interface {
	ObserveQuery(operation, table string, duration time.Duration, err error)
}

// QueryMonitor hooks gorm callbacks to time statements
type QueryMonitor struct {
	observer      QueryObserver
	slowThreshold time.Duration
	logger        *zap.Logger
}

// NewQueryMonitor creates a new query monitor; observer may be nil
func NewQueryMonitor(observer QueryObserver, slowThreshold time.Duration, logger *zap.Logger) *QueryMonitor {
	return &QueryMonitor{
		observer:      observer,
		slowThreshold: slowThreshold,
		logger:        logger,
	}
}

// Install registers before/after callbacks for every statement kind
func (qm *QueryMonitor) Install(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		name   string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		if err := h.before("monitor:before_"+h.name, qm.before); err != nil {
			return err
		}
		if err := h.after("monitor:after_"+h.name, qm.after(h.name)); err != nil {
			return err
		}
	}
	return nil
}

func (qm *QueryMonitor) before(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (qm *QueryMonitor) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		duration := time.Since(start)

		err := db.Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}

		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		if qm.observer != nil {
			qm.observer.ObserveQuery(operation, table, duration, err)
		}
	}
}

// gormLogger routes gorm's own logging through zap
type gormLogger struct {
	logger        *zap.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger adapts zap to gorm's logger interface. Statements are only
// traced in debug mode; slow statements and errors are always reported.
func NewGormLogger(log *zap.Logger, slowThreshold time.Duration, debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gormLogger{logger: log.Named("gorm"), level: level, slowThreshold: slowThreshold}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.logger.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.logger.Error("Query failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.logger.Warn("Slow query detected",
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", l.slowThreshold),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	case l.level >= logger.Info:
		sql, rows := fc()
		l.logger.Debug("Query",
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	}
}
