package backend

import (
	"fmt"
	"strconv"
	"time"

	"socialsync/internal/model"
)

// The backend writes local date-times without an offset; those are read as
// UTC. RFC 3339 values keep their offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a date-time as the backend sends it.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp %s: not a string", data)
	}
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognised layout", raw)
}

// Wire shapes for the resources that carry date-times. Each embeds the model
// type and shadows its time fields with Timestamp.

type userDTO struct {
	model.User
	CreatedAt Timestamp `json:"createdAt"`
}

func (d userDTO) toModel() model.User {
	u := d.User
	u.CreatedAt = d.CreatedAt.Time
	return u
}

type loginDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type subscriptionDTO struct {
	model.Subscription
	CreatedAt Timestamp `json:"createdAt"`
}

func subscriptionsToModels(dtos []subscriptionDTO) []model.Subscription {
	if dtos == nil {
		return nil
	}
	out := make([]model.Subscription, len(dtos))
	for i, d := range dtos {
		out[i] = d.Subscription
		out[i].CreatedAt = d.CreatedAt.Time
	}
	return out
}

type commentDTO struct {
	model.Comment
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

func (d commentDTO) toModel() model.Comment {
	c := d.Comment
	c.CreatedAt = d.CreatedAt.Time
	c.UpdatedAt = d.UpdatedAt.Time
	return c
}

type notificationDTO struct {
	model.Notification
	CreatedAt Timestamp `json:"createdAt"`
}

type reportDTO struct {
	model.Report
	CreatedAt Timestamp `json:"createdAt"`
}

func (d reportDTO) toModel() *model.Report {
	r := d.Report
	r.CreatedAt = d.CreatedAt.Time
	return &r
}
