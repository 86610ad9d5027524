package model

import "time"

// Washroom stall types.
const (
	WashroomA = "A"
	WashroomB = "B"
)

// washroom_records
type WashroomRecord struct {
	ID           int64      `gorm:"column:washroom_id;primaryKey;autoIncrement" json:"washroom_id"`
	ClientID     int64      `gorm:"not null;index" json:"client_id"`
	WashroomType string     `gorm:"type:varchar(1);not null" json:"washroom_type"`
	TimeIn       time.Time  `gorm:"not null" json:"time_in"`
	TimeOut      *time.Time `json:"time_out"`
	Date         Date       `gorm:"not null;index" json:"date"`
}

func (WashroomRecord) TableName() string { return "washroom_records" }

func (r *WashroomRecord) Open() bool { return r.TimeOut == nil }

// coat_check_records
type CoatCheckRecord struct {
	ID       int64      `gorm:"column:check_id;primaryKey;autoIncrement" json:"check_id"`
	ClientID int64      `gorm:"not null;index" json:"client_id"`
	BinNo    int        `gorm:"not null" json:"bin_no"`
	TimeIn   time.Time  `gorm:"not null" json:"time_in"`
	TimeOut  *time.Time `json:"time_out"`
	Date     Date       `gorm:"not null;index" json:"date"`
}

func (CoatCheckRecord) TableName() string { return "coat_check_records" }

func (r *CoatCheckRecord) Open() bool { return r.TimeOut == nil }

// sanctuary_records
type SanctuaryRecord struct {
	ID             int64      `gorm:"column:sanctuary_id;primaryKey;autoIncrement" json:"sanctuary_id"`
	ClientID       int64      `gorm:"not null;index" json:"client_id"`
	Date           Date       `gorm:"not null;index" json:"date"`
	TimeIn         time.Time  `gorm:"not null" json:"time_in"`
	TimeOut        *time.Time `json:"time_out"`
	PurposeOfVisit *string    `gorm:"type:text" json:"purpose_of_visit"`
	IfServiced     bool       `gorm:"not null;default:false" json:"if_serviced"`
}

func (SanctuaryRecord) TableName() string { return "sanctuary_records" }

// clinic_records. Date carries the full visit timestamp.
type ClinicRecord struct {
	ID             int64     `gorm:"column:clinic_id;primaryKey;autoIncrement" json:"clinic_id"`
	ClientID       int64     `gorm:"not null;index" json:"client_id"`
	Date           time.Time `gorm:"not null;index" json:"date"`
	PurposeOfVisit *string   `gorm:"type:text" json:"purpose_of_visit"`
}

func (ClinicRecord) TableName() string { return "clinic_records" }

// safe_sleep_records
type SafeSleepRecord struct {
	ID         int64     `gorm:"column:sleep_id;primaryKey;autoIncrement" json:"sleep_id"`
	ClientID   int64     `gorm:"not null;index" json:"client_id"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	BedNo      *int      `json:"bed_no"`
	IsOccupied bool      `gorm:"not null;default:false" json:"is_occupied"`
}

func (SafeSleepRecord) TableName() string { return "safe_sleep_records" }

func (r *SafeSleepRecord) Open() bool { return r.IsOccupied }
