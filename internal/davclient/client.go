package davclient

import (
	"context"
	"errors"
	"eventdesk/internal/ics"
	"eventdesk/internal/models"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

// DefaultEndpoint is used when no CalDAV endpoint is configured.
const DefaultEndpoint = "https://caldav.icloud.com/"

// customTransport adds Basic Auth and a User-Agent to every request.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "eventdesk/1.0")
	return t.Transport.RoundTrip(req)
}

// Client writes events into one calendar collection on a CalDAV server.
type Client struct {
	caldavClient *caldav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	endpoint     string
	calendarURL  string
}

// NewClient connects to endpoint and locates the calendar called
// calendarName in the user's calendar home.
func NewClient(ctx context.Context, logger *slog.Logger, endpoint, username, password, calendarName string) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if username == "" || password == "" || calendarName == "" {
		return nil, errors.New("CALDAV_USERNAME, CALDAV_PASSWORD and CALDAV_CALENDAR_NAME must be set")
	}

	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport, Timeout: 30 * time.Second}

	caldavClient, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	webdavClient, err := webdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
		endpoint:     endpoint,
	}

	logger.Info("Finding CalDAV calendar", "calendarName", calendarName)
	calendarURL, err := c.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarURL = calendarURL
	logger.Info("Found CalDAV calendar", "url", calendarURL)

	return c, nil
}

// PutEvent creates or replaces <id>.ics in the calendar.
func (c *Client) PutEvent(ctx context.Context, event models.Event) error {
	c.logger.Debug("Publishing event", "title", event.Title, "id", event.ID)

	cal, skipped := ics.NewCalendar([]models.Event{event}, time.Now())
	if len(skipped) > 0 {
		return fmt.Errorf("event %q has no valid date", event.Title)
	}

	// The webdav client resolves paths against the endpoint.
	eventPath := path.Join(strings.TrimPrefix(c.calendarURL, strings.TrimSuffix(c.endpoint, "/")), fmt.Sprintf("%s.ics", event.ID))

	writer, err := c.webdavClient.Create(ctx, eventPath)
	if err != nil {
		return fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}
	if err := ical.NewEncoder(writer).Encode(cal); err != nil {
		writer.Close()
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to upload event: %w", err)
	}
	return nil
}

// findCalendar discovers the user's calendars and returns the URL of the one
// named name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return fmt.Sprintf("%s%s", strings.TrimSuffix(c.endpoint, "/"), cal.Path), nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
