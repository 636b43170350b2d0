package model

import "time"

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `gorm:"size:64;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	Datasets    []Dataset `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
