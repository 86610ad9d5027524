package service

import (
	"time"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
)

type CreateClientRequest struct {
	FullName  string  `json:"full_name" validate:"required,max=255"`
	Nickname  *string `json:"nickname" validate:"omitempty,max=255"`
	BirthYear *int    `json:"birth_year" validate:"omitempty,min=1900,max=2100"`
	Gender    *string `json:"gender" validate:"omitempty,max=2"`
}

type UpdateClientRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,max=255"`
	Nickname  *string `json:"nickname" validate:"omitempty,max=255"`
	BirthYear *int    `json:"birth_year" validate:"omitempty,min=1900,max=2100"`
	Gender    *string `json:"gender" validate:"omitempty,max=2"`
}

type CreateWashroomRequest struct {
	ClientID     int64       `json:"client_id" validate:"required,gt=0"`
	WashroomType string      `json:"washroom_type" validate:"required,oneof=A B"`
	TimeIn       *time.Time  `json:"time_in" validate:"required"`
	TimeOut      *time.Time  `json:"time_out"`
	Date         *model.Date `json:"date"`
}

type UpdateWashroomRequest struct {
	ClientID     *int64      `json:"client_id" validate:"omitempty,gt=0"`
	WashroomType *string     `json:"washroom_type" validate:"omitempty,oneof=A B"`
	TimeIn       *time.Time  `json:"time_in"`
	TimeOut      *time.Time  `json:"time_out"`
	Date         *model.Date `json:"date"`
}

type CreateCoatCheckRequest struct {
	ClientID int64       `json:"client_id" validate:"required,gt=0"`
	BinNo    *int        `json:"bin_no" validate:"required,min=1,max=100"`
	TimeIn   *time.Time  `json:"time_in" validate:"required"`
	TimeOut  *time.Time  `json:"time_out"`
	Date     *model.Date `json:"date"`
}

type UpdateCoatCheckRequest struct {
	ClientID *int64      `json:"client_id" validate:"omitempty,gt=0"`
	BinNo    *int        `json:"bin_no" validate:"omitempty,min=1,max=100"`
	TimeIn   *time.Time  `json:"time_in"`
	TimeOut  *time.Time  `json:"time_out"`
	Date     *model.Date `json:"date"`
}

type CreateSanctuaryRequest struct {
	ClientID       int64       `json:"client_id" validate:"required,gt=0"`
	Date           *model.Date `json:"date"`
	TimeIn         *time.Time  `json:"time_in" validate:"required"`
	TimeOut        *time.Time  `json:"time_out"`
	PurposeOfVisit *string     `json:"purpose_of_visit"`
	IfServiced     *bool       `json:"if_serviced" validate:"required"`
}

type UpdateSanctuaryRequest struct {
	ClientID       *int64      `json:"client_id" validate:"omitempty,gt=0"`
	Date           *model.Date `json:"date"`
	TimeIn         *time.Time  `json:"time_in"`
	TimeOut        *time.Time  `json:"time_out"`
	PurposeOfVisit *string     `json:"purpose_of_visit"`
	IfServiced     *bool       `json:"if_serviced"`
}

// Clinic, safe sleep and attendance dates accept RFC 3339 or YYYY-MM-DD and
// default to now.
type CreateClinicRequest struct {
	ClientID       int64   `json:"client_id" validate:"required,gt=0"`
	Date           *string `json:"date"`
	PurposeOfVisit *string `json:"purpose_of_visit"`
}

type UpdateClinicRequest struct {
	ClientID       *int64  `json:"client_id" validate:"omitempty,gt=0"`
	Date           *string `json:"date"`
	PurposeOfVisit *string `json:"purpose_of_visit"`
}

type CreateSafeSleepRequest struct {
	ClientID   int64   `json:"client_id" validate:"required,gt=0"`
	Date       *string `json:"date"`
	BedNo      *int    `json:"bed_no" validate:"omitempty,min=1,max=20"`
	IsOccupied *bool   `json:"is_occupied"`
}

type UpdateSafeSleepRequest struct {
	ClientID   *int64  `json:"client_id" validate:"omitempty,gt=0"`
	Date       *string `json:"date"`
	BedNo      *int    `json:"bed_no" validate:"omitempty,min=1,max=20"`
	IsOccupied *bool   `json:"is_occupied"`
}

type CreateActivityRequest struct {
	Name       string      `json:"activity_name" validate:"required,max=255"`
	Date       *model.Date `json:"date" validate:"required"`
	StartTime  *time.Time  `json:"start_time"`
	EndTime    *time.Time  `json:"end_time"`
	Attendance *int        `json:"attendance" validate:"omitempty,min=0"`
}

type UpdateActivityRequest struct {
	Name       *string     `json:"activity_name" validate:"omitempty,max=255"`
	Date       *model.Date `json:"date"`
	StartTime  *time.Time  `json:"start_time"`
	EndTime    *time.Time  `json:"end_time"`
	Attendance *int        `json:"attendance" validate:"omitempty,min=0"`
}

type CreateClientActivityRequest struct {
	ClientID   int64   `json:"client_id" validate:"required,gt=0"`
	ActivityID int64   `json:"activity_id" validate:"required,gt=0"`
	Date       *string `json:"date"`
	Score      *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

type UpdateClientActivityRequest struct {
	ClientID   *int64  `json:"client_id" validate:"omitempty,gt=0"`
	ActivityID *int64  `json:"activity_id" validate:"omitempty,gt=0"`
	Date       *string `json:"date"`
	Score      *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

// ListFilter carries the optional list filters. Fields that do not apply to
// a record type are ignored.
type ListFilter struct {
	ClientID   *int64
	ActivityID *int64
	Date       *model.Date
	From       *model.Date // inclusive
	To         *model.Date // inclusive
	Washroom   string
	BinNo      *int
	BedNo      *int
	IsOccupied *bool
	OpenOnly   bool
	FullName   string
	Page       int
	PageSize   int
}

// CleanResult reports what client de-duplication changed.
type CleanResult struct {
	Standardized int `json:"standardized"`
	Removed      int `json:"removed"`
	BedsReleased int `json:"beds_released"`
}
