package model

import "time"

// Report statuses
const (
	ReportPending  = "PENDING"
	ReportResolved = "RESOLVED"
	ReportRejected = "REJECTED"
)

// Report is a user-submitted complaint about a user or a post.
type Report struct {
	ID             int64     `json:"id,omitempty"`
	ReportedUserID *int64    `json:"reportedUserId,omitempty"`
	ReportedPostID *int64    `json:"reportedPostId,omitempty"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// ReportInput is the body of a report submission.
type ReportInput struct {
	Reason string `json:"reason" validate:"required,notblank,max=200"`
}
