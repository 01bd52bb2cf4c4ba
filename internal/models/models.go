package models

import (
	"time"
)

type JobStatus string

const (
	JobFound   JobStatus = "Found"
	JobApplied JobStatus = "Applied"
)

type TaskStatus string

const (
	TaskPending TaskStatus = "Pending"
	TaskSent    TaskStatus = "Sent"
	TaskFailed  TaskStatus = "Failed"
)

// ValidTaskTransition reports whether a queue entry may move from one
// status to another. Sent is terminal; Failed entries may be retried.
func ValidTaskTransition(from, to TaskStatus) bool {
	switch from {
	case TaskPending:
		return to == TaskSent || to == TaskFailed
	case TaskFailed:
		return to == TaskPending || to == TaskSent
	default:
		return false
	}
}

// JobRecord is one discovered posting. Company and Title are always
// populated ("N/A" when the source did not expose them).
type JobRecord struct {
	ID          int64      `json:"id"`
	Company     string     `json:"company_name"`
	Title       string     `json:"job_title"`
	Description string     `json:"job_description"`
	Email       string     `json:"email"`
	URL         string     `json:"url"`
	Location    string     `json:"location"`
	Salary      string     `json:"salary"`
	DateFound   time.Time  `json:"date_found"`
	Status      JobStatus  `json:"status"`
	AppliedDate *time.Time `json:"applied_date,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// EmailTask is one queued outbound application referencing a job.
type EmailTask struct {
	ID        int64      `json:"id"`
	JobID     int64      `json:"job_id"`
	Recipient string     `json:"recipient_email"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_date"`
	SentAt    *time.Time `json:"sent_date,omitempty"`

	// Denormalized for queue listings (joined from jobs).
	Company  string `json:"company_name,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
}
