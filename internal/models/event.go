package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for Event.Date.
const DateLayout = "2006-01-02"

// Categories an event can be filed under.
const (
	CategoryConference    = "Conference"
	CategoryWorkshop      = "Workshop"
	CategoryNetworking    = "Networking"
	CategoryEntertainment = "Entertainment"
	CategoryPersonal      = "Personal"
	CategoryOther         = "Other"
	CategoryNone          = "uncategorized"
)

// Categories lists the known categories in display order.
var Categories = []string{
	CategoryConference,
	CategoryWorkshop,
	CategoryNetworking,
	CategoryEntertainment,
	CategoryPersonal,
	CategoryOther,
	CategoryNone,
}

// KnownCategory reports whether c is one of Categories.
func KnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ID identifies an event. Newly created events get UUID strings; lists written
// by older clients used millisecond timestamps, so numeric JSON ids are
// accepted and kept in their decimal form.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("event id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Event is a single entry in the user's event list.
type Event struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ParsedDate returns the event's calendar date. ok is false when Date is not
// a valid YYYY-MM-DD value.
func (e Event) ParsedDate() (t time.Time, ok bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(e.Date))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Draft holds the user-editable fields of an event, as read from the input
// form before an id is assigned.
type Draft struct {
	Title       string
	Date        string
	Category    string
	Description string
}

// DraftOf returns the editable fields of e.
func DraftOf(e Event) Draft {
	return Draft{
		Title:       e.Title,
		Date:        e.Date,
		Category:    e.Category,
		Description: e.Description,
	}
}

// Normalize trims free-text fields and files an empty category under
// CategoryNone.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Date = strings.TrimSpace(d.Date)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)
	if d.Category == "" {
		d.Category = CategoryNone
	}
	return d
}

// RemoteEvent is an event pulled from an external calendar provider, keyed by
// the provider's own identifier.
type RemoteEvent struct {
	SourceID string // provider event id (e.g. Google event id)
	Source   string // provider label, e.g. "google-primary"
	Draft    Draft
}
