package dto

import (
	model "labelforge.com/labelforge/internal/models"
)

type ProjectDetail struct {
	model.Project
	Datasets []model.Dataset `json:"datasets"`
}

type TaskCounts struct {
	Total      int64 `json:"total"`
	Unclaimed  int64 `json:"unclaimed"`
	InProgress int64 `json:"in_progress"`
	Submitted  int64 `json:"submitted"`
	Approved   int64 `json:"approved"`
}

type DatasetDetail struct {
	model.Dataset
	TaskCounts TaskCounts `json:"task_counts"`
}

type BulkCreateResult struct {
	Created int `json:"created"`
}

// DailyCount is one day of reviewer throughput, keyed by the UTC calendar
// date of the review timestamp.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AnnotatorStats struct {
	UserID        string  `json:"user_id"`
	Done          int     `json:"done"`
	Rejected      int     `json:"rejected"`
	RejectionRate float64 `json:"rejection_rate"`
	AvgTime       float64 `json:"avg_time"`
}

// ProjectMetrics is the dashboard snapshot. Rejected counts distinct tasks
// that were rejected at least once, not rejection events.
type ProjectMetrics struct {
	TotalTasks        int              `json:"total_tasks"`
	Completed         int              `json:"completed"`
	Rejected          int              `json:"rejected"`
	CompletionRate    float64          `json:"completion_rate"`
	RejectionRate     float64          `json:"rejection_rate"`
	AvgTimePerTask    float64          `json:"avg_time_per_task"`
	DailyThroughput   []DailyCount     `json:"daily_throughput"`
	PerAnnotator      []AnnotatorStats `json:"per_annotator"`
	LabelDistribution map[string]int   `json:"label_distribution"`
}
