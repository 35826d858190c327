package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// uidProperty is the private extended property used to tag imported
// events with their ICS UID, so a re-import updates instead of
// duplicating.
const uidProperty = "ics_uid"

type GoogleCalendarProvider struct {
	service *calendar.Service
	ctx     context.Context
}

func NewGoogleCalendarProvider(ctx context.Context, client *http.Client) (*GoogleCalendarProvider, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendarProvider{
		service: service,
		ctx:     ctx,
	}, nil
}

// ResolveCalendarID resolves a calendar id or display name against the
// user's calendar list. "primary" is passed through without a lookup.
func (g *GoogleCalendarProvider) ResolveCalendarID(selector string) (string, error) {
	if selector == "primary" {
		return selector, nil
	}

	var pageToken string
	for {
		call := g.service.CalendarList.List().MaxResults(250)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return "", fmt.Errorf("failed to list calendars: %w", err)
		}
		for _, item := range resp.Items {
			if strings.EqualFold(item.Id, selector) || strings.EqualFold(item.Summary, selector) {
				return item.Id, nil
			}
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return "", fmt.Errorf("no calendar found matching %q", selector)
}

func (g *GoogleCalendarProvider) FindEventByUID(calendarID string, uid string) (string, error) {
	if uid == "" {
		return "", nil
	}

	resp, err := g.service.Events.List(calendarID).
		PrivateExtendedProperty(uidProperty + "=" + uid).
		MaxResults(1).
		SingleEvents(false).
		ShowDeleted(false).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search for event with UID %s: %w", uid, err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Id, nil
}

func (g *GoogleCalendarProvider) CreateEvent(calendarID string, record *EventRecord) (string, error) {
	var created *calendar.Event
	err := withRetry(func() error {
		ev, err := g.service.Events.Insert(calendarID, buildEvent(record)).Do()
		if err != nil {
			return err
		}
		created = ev
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return created.Id, nil
}

func (g *GoogleCalendarProvider) UpdateEvent(calendarID string, eventID string, record *EventRecord) error {
	err := withRetry(func() error {
		_, err := g.service.Events.Patch(calendarID, eventID, buildEvent(record)).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// buildEvent maps an EventRecord to the Google Calendar payload. Timed
// events use RFC3339 date-times, all-day events the date-only fields.
func buildEvent(record *EventRecord) *calendar.Event {
	googleEvent := &calendar.Event{
		Summary:     record.Summary,
		Description: record.Description,
		Location:    record.Location,
	}

	if record.AllDay {
		googleEvent.Start = &calendar.EventDateTime{
			Date: record.Start.Format("2006-01-02"),
		}
		googleEvent.End = &calendar.EventDateTime{
			Date: record.End.Format("2006-01-02"),
		}
	} else {
		googleEvent.Start = &calendar.EventDateTime{
			DateTime: record.Start.Format(time.RFC3339),
		}
		googleEvent.End = &calendar.EventDateTime{
			DateTime: record.End.Format(time.RFC3339),
		}
	}

	if record.UID != "" {
		googleEvent.ExtendedProperties = &calendar.EventExtendedProperties{
			Private: map[string]string{uidProperty: record.UID},
		}
	}

	if record.RRule != "" {
		googleEvent.Recurrence = []string{"RRULE:" + record.RRule}
	}

	return googleEvent
}

// withRetry runs op, allowing one more attempt after a transient
// failure. Permanent failures (bad credentials, malformed payload,
// quota exhaustion) are surfaced immediately.
func withRetry(op func() error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1)
	return backoff.Retry(wrapped, policy)
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500
	}
	// Anything that never reached the API (connection reset, timeout)
	// is worth the one retry.
	return true
}
