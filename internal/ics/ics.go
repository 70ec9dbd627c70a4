// Package ics converts events to and from iCalendar data. Every event is an
// all-day VEVENT whose UID is the event id.
package ics

import (
	"errors"
	"eventdesk/internal/models"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

const productID = "-//eventdesk//EN"

// NewCalendar builds a VCALENDAR holding events. Events whose date does not
// parse cannot carry a DTSTART and are returned in skipped instead.
func NewCalendar(events []models.Event, stamp time.Time) (cal *ical.Calendar, skipped []models.Event) {
	cal = ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, ev := range events {
		vevent, ok := toVEvent(ev, stamp)
		if !ok {
			skipped = append(skipped, ev)
			continue
		}
		cal.Children = append(cal.Children, vevent)
	}
	return cal, skipped
}

// Encode writes events as an iCalendar stream and returns how many were left
// out for having no valid date.
func Encode(w io.Writer, events []models.Event) (skipped int, err error) {
	cal, left := NewCalendar(events, time.Now())
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return len(left), fmt.Errorf("failed to encode calendar: %w", err)
	}
	return len(left), nil
}

func toVEvent(ev models.Event, stamp time.Time) (*ical.Component, bool) {
	date, ok := ev.ParsedDate()
	if !ok {
		return nil, false
	}
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, string(ev.ID))
	ve.Props.SetText(ical.PropSummary, ev.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDate(ical.PropDateTimeStart, date)
	ve.Props.SetDate(ical.PropDateTimeEnd, date.AddDate(0, 0, 1))

	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Category != "" && ev.Category != models.CategoryNone {
		ve.Props.SetText(ical.PropCategories, ev.Category)
	}
	return ve, true
}

// Decode reads every VEVENT from r. Events without a summary or a start are
// dropped. Date-times are reduced to their calendar date in loc.
func Decode(r io.Reader, loc *time.Location) ([]models.Draft, error) {
	if loc == nil {
		loc = time.Local
	}
	dec := ical.NewDecoder(r)

	var drafts []models.Draft
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, ev := range cal.Events() {
			title, err := ev.Props.Text(ical.PropSummary)
			if err != nil || strings.TrimSpace(title) == "" {
				continue
			}
			start, err := ev.DateTimeStart(loc)
			if err != nil || start.IsZero() {
				continue
			}
			description, _ := ev.Props.Text(ical.PropDescription)
			drafts = append(drafts, models.Draft{
				Title:       title,
				Date:        start.In(loc).Format(models.DateLayout),
				Category:    firstCategory(ev),
				Description: description,
			})
		}
	}
	return drafts, nil
}

// firstCategory returns the first entry of the CATEGORIES list.
func firstCategory(ev ical.Event) string {
	prop := ev.Props.Get(ical.PropCategories)
	if prop == nil {
		return ""
	}
	categories, err := prop.TextList()
	if err != nil || len(categories) == 0 {
		return ""
	}
	return strings.TrimSpace(categories[0])
}
