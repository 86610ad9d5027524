package model

import "time"

// activity_records: catalog entry for a group activity.
type Activity struct {
	ID         int64      `gorm:"column:activity_id;primaryKey;autoIncrement" json:"activity_id"`
	Name       string     `gorm:"column:activity_name;type:varchar(255);not null" json:"activity_name"`
	Date       Date       `gorm:"not null;index" json:"date"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	Attendance int        `gorm:"not null;default:0" json:"attendance"`

	Participants []ClientActivity `gorm:"foreignKey:ActivityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Activity) TableName() string { return "activity_records" }

// client_activity: attendance of a client at an activity.
type ClientActivity struct {
	ID         int64     `gorm:"column:client_activity_id;primaryKey;autoIncrement" json:"client_activity_id"`
	ClientID   int64     `gorm:"not null;index" json:"client_id"`
	ActivityID int64     `gorm:"not null;index" json:"activity_id"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	Score      *int      `json:"score"`
}

func (ClientActivity) TableName() string { return "client_activity" }
