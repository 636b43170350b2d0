package model

import "time"

// Dataset groups tasks under a project. Labels are advisory metadata for
// annotation clients; submitted annotations are not checked against them.
type Dataset struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ProjectID uint       `gorm:"index;not null" json:"project_id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Labels    StringList `gorm:"type:text" json:"labels"`
	CreatedAt time.Time  `json:"created_at"`
	Tasks     []Task     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
