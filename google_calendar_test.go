package main

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func TestBuildEventTimed(t *testing.T) {
	record := &EventRecord{
		UID:         "trip-1@example.com",
		Summary:     "Flight to Berlin",
		Description: "window seat",
		Location:    "BER",
		Start:       time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
	}

	ev := buildEvent(record)

	if ev.Start.DateTime != "2024-05-01T08:00:00Z" {
		t.Errorf("start = %q", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2024-05-01T11:00:00Z" {
		t.Errorf("end = %q", ev.End.DateTime)
	}
	if ev.Start.Date != "" || ev.End.Date != "" {
		t.Error("timed event must not set date-only fields")
	}
	if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private[uidProperty] != "trip-1@example.com" {
		t.Errorf("extended properties = %+v", ev.ExtendedProperties)
	}
	if ev.Summary != "Flight to Berlin" || ev.Location != "BER" || ev.Description != "window seat" {
		t.Errorf("unexpected event fields: %+v", ev)
	}
}

func TestBuildEventAllDay(t *testing.T) {
	record := &EventRecord{
		Summary: "Holiday",
		Start:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		AllDay:  true,
	}

	ev := buildEvent(record)

	if ev.Start.Date != "2024-05-01" || ev.End.Date != "2024-05-02" {
		t.Errorf("dates = %q to %q", ev.Start.Date, ev.End.Date)
	}
	if ev.Start.DateTime != "" || ev.End.DateTime != "" {
		t.Error("all-day event must not set date-time fields")
	}
	if ev.ExtendedProperties != nil {
		t.Error("event without UID must not carry extended properties")
	}
}

func TestBuildEventRecurrence(t *testing.T) {
	record := &EventRecord{
		Summary: "Standup",
		Start:   time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 5, 1, 8, 15, 0, 0, time.UTC),
		RRule:   "FREQ=WEEKLY;COUNT=3",
	}

	ev := buildEvent(record)

	if len(ev.Recurrence) != 1 || ev.Recurrence[0] != "RRULE:FREQ=WEEKLY;COUNT=3" {
		t.Errorf("recurrence = %v", ev.Recurrence)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "server error", err: &googleapi.Error{Code: 503}, want: true},
		{name: "bad request", err: &googleapi.Error{Code: 400}, want: false},
		{name: "unauthorized", err: &googleapi.Error{Code: 401}, want: false},
		{name: "quota exceeded", err: &googleapi.Error{Code: 429}, want: false},
		{name: "network error", err: errors.New("connection reset"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		return &googleapi.Error{Code: 403}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("permanent error retried: %d calls", calls)
	}
}

func TestWithRetryRetriesTransientOnce(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		if calls == 1 {
			return &googleapi.Error{Code: 500}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
