package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one connection or transaction.
type Repositories struct {
	db *gorm.DB

	Clients          *GormClientRepository
	Washrooms        *GormWashroomRepository
	CoatChecks       *GormCoatCheckRepository
	Sanctuary        *GormSanctuaryRepository
	Clinic           *GormClinicRepository
	SafeSleep        *GormSafeSleepRepository
	Activities       *GormActivityRepository
	ClientActivities *GormClientActivityRepository
	Usage            *GormUsageRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:               db,
		Clients:          NewGormClientRepository(db),
		Washrooms:        NewGormWashroomRepository(db),
		CoatChecks:       NewGormCoatCheckRepository(db),
		Sanctuary:        NewGormSanctuaryRepository(db),
		Clinic:           NewGormClinicRepository(db),
		SafeSleep:        NewGormSafeSleepRepository(db),
		Activities:       NewGormActivityRepository(db),
		ClientActivities: NewGormClientActivityRepository(db),
		Usage:            NewGormUsageRepository(db),
	}
}

// Transaction runs fn with repositories bound to one transaction. Any error
// returned by fn rolls the whole transaction back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// DB exposes the underlying handle for read-only callers such as export.
func (r *Repositories) DB() *gorm.DB { return r.db }
