package model

import (
	"time"

	"labelforge.com/labelforge/internal/constants"
)

// Task is a single unit of labeling work. Review metadata set by a rejection
// is kept when the task re-enters in_progress, so ReviewedBy/ReviewedAt may
// be non-nil on a task that is not approved.
type Task struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	DatasetID        uint                 `gorm:"index;not null" json:"dataset_id"`
	TextContent      string               `gorm:"not null" json:"text_content"`
	Status           constants.TaskStatus `gorm:"type:varchar(20);not null;default:unclaimed;index" json:"status"`
	AssignedTo       *string              `gorm:"size:64;index" json:"assigned_to,omitempty"`
	Annotation       JSONMap              `gorm:"type:text" json:"annotation,omitempty"`
	SubmittedAt      *time.Time           `json:"submitted_at,omitempty"`
	ReviewedBy       *string              `gorm:"size:64" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time           `json:"reviewed_at,omitempty"`
	TimeSpentSeconds int                  `gorm:"not null;default:0" json:"time_spent_seconds"`
	Comments         []Comment            `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}
