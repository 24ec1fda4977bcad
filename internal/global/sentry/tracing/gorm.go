package tracing

import (
	"errors"
	"time"

	"homeforge/config"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey    = "sentry:span"
	gormStartKey   = "sentry:start"
	callbackPrefix = "sentry_tracing"
)

// GormTracingPlugin records one span per gorm statement, named by table.
type GormTracingPlugin struct {
	system        string
	slowThreshold time.Duration
}

func NewGormTracingPlugin() *GormTracingPlugin {
	cfg := config.Get()
	return &GormTracingPlugin{
		system:        cfg.Database.Driver,
		slowThreshold: time.Duration(cfg.Sentry.Tracing.DBSlowThresholdMs) * time.Millisecond,
	}
}

func (p *GormTracingPlugin) Name() string {
	return "SentryTracingPlugin"
}

func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	steps := []struct {
		op     string
		name   string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"db.sql.create", "gorm:create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"db.sql.query", "gorm:query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"db.sql.update", "gorm:update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"db.sql.delete", "gorm:delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"db.sql.row", "gorm:row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"db.sql.raw", "gorm:raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	var errs []error
	for _, s := range steps {
		errs = append(errs,
			s.before(callbackPrefix+":before_"+s.name, p.before(s.op)),
			s.after(callbackPrefix+":after_"+s.name, p.after),
		)
	}
	return errors.Join(errs...)
}

func (p *GormTracingPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		parent := sentry.SpanFromContext(db.Statement.Context)
		if parent == nil {
			return
		}
		span := parent.StartChild(operation)
		span.Description = db.Statement.Table
		if span.Description == "" {
			span.Description = "unknown"
		}
		span.SetData("db.system", p.system)
		db.InstanceSet(gormStartKey, time.Now())
		db.InstanceSet(gormSpanKey, span)
	}
}

func (p *GormTracingPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := v.(*sentry.Span)
	if !ok || span == nil {
		return
	}
	start, _ := db.InstanceGet(gormStartKey)
	startTime, _ := start.(time.Time)

	span.SetData("db.rows_affected", db.RowsAffected)
	finish(span, db.Error, p.slowThreshold <= 0 || time.Since(startTime) >= p.slowThreshold)
}
