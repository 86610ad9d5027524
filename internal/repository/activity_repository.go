package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
)

type GormActivityRepository struct {
	*Store[model.Activity]
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{Store: NewStore[model.Activity](db, "activity_id")}
}

func (r *GormActivityRepository) WithTx(tx *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{Store: r.Store.WithTx(tx)}
}

// AdjustAttendance adds delta to the attendance counter, never going below zero.
func (r *GormActivityRepository) AdjustAttendance(ctx context.Context, activityID int64, delta int) error {
	if delta == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("activity_id = ?", activityID).
		Update("attendance", gorm.Expr("CASE WHEN attendance + ? < 0 THEN 0 ELSE attendance + ? END", delta, delta)).
		Error
}

type GormClientActivityRepository struct {
	*Store[model.ClientActivity]
}

func NewGormClientActivityRepository(db *gorm.DB) *GormClientActivityRepository {
	return &GormClientActivityRepository{Store: NewStore[model.ClientActivity](db, "client_activity_id")}
}

func (r *GormClientActivityRepository) WithTx(tx *gorm.DB) *GormClientActivityRepository {
	return &GormClientActivityRepository{Store: r.Store.WithTx(tx)}
}

// AttendanceByActivity counts the matching rows per activity.
func (r *GormClientActivityRepository) AttendanceByActivity(ctx context.Context, scopes ...Scope) (map[int64]int, error) {
	var rows []struct {
		ActivityID int64
		N          int
	}
	err := r.db.WithContext(ctx).
		Model(&model.ClientActivity{}).
		Scopes(scopes...).
		Select("activity_id, COUNT(*) AS n").
		Group("activity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.ActivityID] = row.N
	}
	return out, nil
}

// DeleteForActivity removes every attendance row of the activity.
func (r *GormClientActivityRepository) DeleteForActivity(ctx context.Context, activityID int64) error {
	return r.db.WithContext(ctx).Where("activity_id = ?", activityID).Delete(&model.ClientActivity{}).Error
}
