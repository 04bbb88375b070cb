// Package calendar lists Google Calendar events and converts them into
// draft income entries.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	goption "google.golang.org/api/option"
)

const maxEventsPerMonth = 500

// ErrAuth signals expired or revoked Google credentials.
var ErrAuth = errors.New("google credentials rejected")

type Client struct {
	svc        *gcal.Service
	calendarID string
}

var _ EventLister = (*Client)(nil)

// NewFromEnv creates a Calendar client from environment variables.
// Optional: GOOGLE_CALENDAR_ID (default "primary").
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	calendarID := strings.TrimSpace(os.Getenv("GOOGLE_CALENDAR_ID"))
	if calendarID == "" {
		calendarID = "primary"
	}

	svc, err := newCalendarService(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}

	return &Client{svc: svc, calendarID: calendarID}, nil
}

func newCalendarService(ctx context.Context) (*gcal.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gcal.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gcal.CalendarReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return service, nil
}

// ListEventsForMonth fetches events from the configured calendar whose start
// falls within the given month, ordered by start time.
func (c *Client) ListEventsForMonth(ctx context.Context, year, month int) ([]Event, error) {
	timeMin := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	timeMax := timeMin.AddDate(0, 1, 0).Add(-time.Second)

	resp, err := c.svc.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventsPerMonth).
		Fields("items(id,summary,start,end)").
		Context(ctx).
		Do()
	if err != nil {
		if isAuthError(err) {
			return nil, fmt.Errorf("listing events: %w", ErrAuth)
		}
		return nil, fmt.Errorf("listing events: %w", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, ok := fromAPIEvent(item)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	slog.InfoContext(ctx, "Fetched calendar events",
		"calendar", c.calendarID, "year", year, "month", month, "count", len(events))
	return events, nil
}

// fromAPIEvent converts a raw API event, handling both timed events
// (dateTime) and all-day events (date). Events without an id or start are
// skipped.
func fromAPIEvent(item *gcal.Event) (Event, bool) {
	if item == nil || item.Id == "" || item.Start == nil {
		return Event{}, false
	}
	start, ok := parseEventTime(item.Start)
	if !ok {
		return Event{}, false
	}
	end := start
	if item.End != nil {
		if t, ok := parseEventTime(item.End); ok {
			end = t
		}
	}
	title := item.Summary
	if title == "" {
		title = "(untitled event)"
	}
	return Event{ID: item.Id, Title: title, Start: start, End: end}, true
}

func parseEventTime(dt *gcal.EventDateTime) (time.Time, bool) {
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		return t, err == nil
	}
	if dt.Date != "" {
		t, err := time.Parse("2006-01-02", dt.Date)
		return t, err == nil
	}
	return time.Time{}, false
}

func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "oauth2") || strings.Contains(msg, "credentials")
}
