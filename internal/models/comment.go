package model

import "time"

// Comment records one rejection. Comments are append-only; a task carries its
// full rejection history across repeated submit/reject cycles.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index;not null" json:"task_id"`
	AuthorID  string    `gorm:"size:64;not null" json:"author_id"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
