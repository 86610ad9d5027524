package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
)

// UsageSource locates the columns a service table is measured by.
type UsageSource struct {
	Table      string
	DateColumn string
	TimeColumn string // empty when the table has no time-in
	// DateOnly is set when DateColumn holds a calendar date, not a timestamp.
	DateOnly bool
}

func (src UsageSource) within(r calendar.TimeRange) Scope {
	if src.DateOnly {
		return WithinDays(src.DateColumn, r)
	}
	return Within(src.DateColumn, r)
}

// Touch is one service record reduced to who and when.
type Touch struct {
	ClientID int64
	Day      time.Time
	At       *time.Time
}

// Score is one satisfaction response.
type Score struct {
	Date  time.Time
	Score int
}

// GormUsageRepository answers the read-only queries behind statistics and the
// recent-activity feed.
type GormUsageRepository struct {
	db *gorm.DB
}

func NewGormUsageRepository(db *gorm.DB) *GormUsageRepository {
	return &GormUsageRepository{db: db}
}

// Count returns the number of rows whose date column falls into r.
func (u *GormUsageRepository) Count(ctx context.Context, src UsageSource, r calendar.TimeRange) (int64, error) {
	var n int64
	err := u.db.WithContext(ctx).
		Table(src.Table).
		Scopes(src.within(r)).
		Count(&n).Error
	return n, err
}

// DistinctClients returns the distinct client ids with a row in r.
func (u *GormUsageRepository) DistinctClients(ctx context.Context, src UsageSource, r calendar.TimeRange) ([]int64, error) {
	var ids []int64
	err := u.db.WithContext(ctx).
		Table(src.Table).
		Scopes(src.within(r)).
		Distinct("client_id").
		Pluck("client_id", &ids).Error
	return ids, err
}

// Touches returns every row in r.
func (u *GormUsageRepository) Touches(ctx context.Context, src UsageSource, r calendar.TimeRange) ([]Touch, error) {
	var out []Touch
	err := u.db.WithContext(ctx).
		Table(src.Table).
		Select(touchColumns(src)).
		Scopes(src.within(r)).
		Scan(&out).Error
	return out, err
}

// Latest returns the newest limit rows of the table.
func (u *GormUsageRepository) Latest(ctx context.Context, src UsageSource, limit int) ([]Touch, error) {
	order := src.DateColumn + " DESC"
	if src.TimeColumn != "" {
		order += ", " + src.TimeColumn + " DESC"
	}
	var out []Touch
	err := u.db.WithContext(ctx).
		Table(src.Table).
		Select(touchColumns(src)).
		Order(order).
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// Scores returns the satisfaction scores recorded in r.
func (u *GormUsageRepository) Scores(ctx context.Context, r calendar.TimeRange) ([]Score, error) {
	var out []Score
	err := u.db.WithContext(ctx).
		Table("client_activity").
		Select("date, score").
		Scopes(Within("date", r)).
		Where("score IS NOT NULL").
		Scan(&out).Error
	return out, err
}

func touchColumns(src UsageSource) string {
	at := "NULL"
	if src.TimeColumn != "" {
		at = src.TimeColumn
	}
	return "client_id, " + src.DateColumn + " AS day, " + at + " AS at"
}
