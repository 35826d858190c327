package main

import (
	"time"
)

// CalendarAPI is the surface of the calendar backend the importer
// needs. It is passed around explicitly so tests can substitute a fake.
type CalendarAPI interface {
	// ResolveCalendarID turns a calendar id or display name into a
	// concrete calendar id. "primary" passes through unchanged.
	ResolveCalendarID(selector string) (string, error)
	// FindEventByUID returns the id of a previously imported event
	// carrying the given ICS UID, or "" if none exists.
	FindEventByUID(calendarID string, uid string) (string, error)
	CreateEvent(calendarID string, record *EventRecord) (string, error)
	UpdateEvent(calendarID string, eventID string, record *EventRecord) error
}

// EventRecord is one calendar event parsed from an .ics file.
type EventRecord struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	RRule       string // raw RRULE value, forwarded to the backend untouched
}
