package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
)

type GormWashroomRepository struct {
	*Store[model.WashroomRecord]
}

func NewGormWashroomRepository(db *gorm.DB) *GormWashroomRepository {
	return &GormWashroomRepository{Store: NewStore[model.WashroomRecord](db, "washroom_id")}
}

func (r *GormWashroomRepository) WithTx(tx *gorm.DB) *GormWashroomRepository {
	return &GormWashroomRepository{Store: r.Store.WithTx(tx)}
}

// OpenForStall returns the open record holding the stall, ignoring exceptID.
func (r *GormWashroomRepository) OpenForStall(ctx context.Context, stall string, exceptID int64) (*model.WashroomRecord, error) {
	return r.First(ctx, Eq("washroom_type", stall), IsNull("time_out"), NotID("washroom_id", exceptID))
}

type GormCoatCheckRepository struct {
	*Store[model.CoatCheckRecord]
}

func NewGormCoatCheckRepository(db *gorm.DB) *GormCoatCheckRepository {
	return &GormCoatCheckRepository{Store: NewStore[model.CoatCheckRecord](db, "check_id")}
}

func (r *GormCoatCheckRepository) WithTx(tx *gorm.DB) *GormCoatCheckRepository {
	return &GormCoatCheckRepository{Store: r.Store.WithTx(tx)}
}

// OpenForBin returns the open record holding the bin, ignoring exceptID.
func (r *GormCoatCheckRepository) OpenForBin(ctx context.Context, bin int, exceptID int64) (*model.CoatCheckRecord, error) {
	return r.First(ctx, Eq("bin_no", bin), IsNull("time_out"), NotID("check_id", exceptID))
}

type GormSanctuaryRepository struct {
	*Store[model.SanctuaryRecord]
}

func NewGormSanctuaryRepository(db *gorm.DB) *GormSanctuaryRepository {
	return &GormSanctuaryRepository{Store: NewStore[model.SanctuaryRecord](db, "sanctuary_id")}
}

func (r *GormSanctuaryRepository) WithTx(tx *gorm.DB) *GormSanctuaryRepository {
	return &GormSanctuaryRepository{Store: r.Store.WithTx(tx)}
}

type GormClinicRepository struct {
	*Store[model.ClinicRecord]
}

func NewGormClinicRepository(db *gorm.DB) *GormClinicRepository {
	return &GormClinicRepository{Store: NewStore[model.ClinicRecord](db, "clinic_id")}
}

func (r *GormClinicRepository) WithTx(tx *gorm.DB) *GormClinicRepository {
	return &GormClinicRepository{Store: r.Store.WithTx(tx)}
}

type GormSafeSleepRepository struct {
	*Store[model.SafeSleepRecord]
}

func NewGormSafeSleepRepository(db *gorm.DB) *GormSafeSleepRepository {
	return &GormSafeSleepRepository{Store: NewStore[model.SafeSleepRecord](db, "sleep_id")}
}

func (r *GormSafeSleepRepository) WithTx(tx *gorm.DB) *GormSafeSleepRepository {
	return &GormSafeSleepRepository{Store: r.Store.WithTx(tx)}
}

// OccupiedBed returns the occupied record holding the bed, ignoring exceptID.
func (r *GormSafeSleepRepository) OccupiedBed(ctx context.Context, bed int, exceptID int64) (*model.SafeSleepRecord, error) {
	return r.First(ctx, Eq("bed_no", bed), Eq("is_occupied", true), NotID("sleep_id", exceptID))
}

// OccupiedByClient returns the client's occupied record, ignoring exceptID.
func (r *GormSafeSleepRepository) OccupiedByClient(ctx context.Context, clientID, exceptID int64) (*model.SafeSleepRecord, error) {
	return r.First(ctx, Eq("client_id", clientID), Eq("is_occupied", true), NotID("sleep_id", exceptID))
}

// ReleaseBeds marks every occupied record of the clients as vacated, except
// keepID, and returns how many were released.
func (r *GormSafeSleepRepository) ReleaseBeds(ctx context.Context, clientIDs []int64, keepID int64) (int64, error) {
	if len(clientIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.SafeSleepRecord{}).
		Where("client_id IN ? AND is_occupied = ?", clientIDs, true).
		Scopes(NotID("sleep_id", keepID)).
		Update("is_occupied", false)
	return res.RowsAffected, res.Error
}
