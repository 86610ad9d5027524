package model

import "time"

// client: the person served by the center.
type Client struct {
	ID        int64   `gorm:"column:client_id;primaryKey;autoIncrement" json:"client_id"`
	FullName  string  `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Nickname  *string `gorm:"type:varchar(255)" json:"nickname"`
	BirthYear *int    `gorm:"type:integer" json:"birth_year"`
	Gender    *string `gorm:"type:varchar(2)" json:"gender"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Dependent records. Deleting a client deletes them.
	Washrooms        []WashroomRecord  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CoatChecks       []CoatCheckRecord `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SanctuaryVisits  []SanctuaryRecord `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ClinicVisits     []ClinicRecord    `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SafeSleeps       []SafeSleepRecord `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ClientActivities []ClientActivity  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Client) TableName() string { return "client" }
