package google

import (
	"context"
	"encoding/json"
	"errors"
	"eventdesk/internal/models"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// credentialsFile is read when no client id and secret are configured.
const credentialsFile = "credentials.json"

// desktopRedirect is the out-of-band redirect used by the copy-paste auth flow.
const desktopRedirect = "urn:ietf:wg:oauth:2.0:oob"

// CalendarClient reads one Google account's calendars.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
	loc     *time.Location
}

// NewClient builds a read-only calendar service for accountName, using the
// token saved by the auth command under tokenDir.
func NewClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, tokenDir, accountName string, loc *time.Location) (*CalendarClient, error) {
	config, err := getOAuthConfig(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	token, err := tokenFromFile(TokenPath(tokenDir, accountName))
	if err != nil {
		return nil, fmt.Errorf("could not load token for account %s: %w. Please run the 'auth' command first", accountName, err)
	}

	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	if loc == nil {
		loc = time.Local
	}
	return &CalendarClient{service: service, logger: logger, loc: loc}, nil
}

// UpcomingEvents fetches events starting within the next days from the
// specified calendar, all-day events included.
func (c *CalendarClient) UpcomingEvents(ctx context.Context, calendarID string, days int) ([]models.RemoteEvent, error) {
	c.logger.Debug("Fetching upcoming events", "calendarID", calendarID, "days", days)
	now := time.Now().UTC()
	tmax := now.Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
	tmin := now.Format(time.RFC3339)

	events, err := c.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(tmin).
		TimeMax(tmax).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	c.logger.Info("Successfully fetched events from Google Calendar", "count", len(events.Items), "calendarID", calendarID)
	return toRemoteEvents(events.Items, calendarID, c.loc), nil
}

// toRemoteEvents converts Google Calendar events to drafts keyed by their
// Google event id. Timed events are reduced to their date in loc. Events
// without a summary (busy-only or private ones) are left out.
func toRemoteEvents(googleEvents []*calendar.Event, source string, loc *time.Location) []models.RemoteEvent {
	var out []models.RemoteEvent
	for _, item := range googleEvents {
		if item == nil || item.Start == nil || strings.TrimSpace(item.Summary) == "" {
			continue
		}

		var date string
		switch {
		case item.Start.Date != "":
			date = item.Start.Date
		case item.Start.DateTime != "":
			start, err := time.Parse(time.RFC3339, item.Start.DateTime)
			if err != nil {
				continue
			}
			date = start.In(loc).Format(models.DateLayout)
		default:
			continue
		}

		description := item.Description
		if item.Location != "" {
			if description != "" {
				description += "\n"
			}
			description += "Location: " + item.Location
		}

		out = append(out, models.RemoteEvent{
			SourceID: item.Id,
			Source:   fmt.Sprintf("google-%s", source),
			Draft: models.Draft{
				Title:       item.Summary,
				Date:        date,
				Description: description,
			},
		})
	}
	return out
}

// GetOAuthConfigForAuthFlow returns the OAuth2 config the auth command
// exchanges the pasted code with.
func GetOAuthConfigForAuthFlow(clientID, clientSecret string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret)
}

// getOAuthConfig prefers an explicit client id and secret and falls back to
// credentialsFile in the working directory.
func getOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  desktopRedirect,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	raw, err := os.ReadFile(credentialsFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("no Google client configured: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET or provide %s", credentialsFile)
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", credentialsFile, err)
	}

	cfg, err := google.ConfigFromJSON(raw, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", credentialsFile, err)
	}
	cfg.RedirectURL = desktopRedirect
	return cfg, nil
}

// TokenFromWeb trades an authorization code for a token.
func TokenFromWeb(ctx context.Context, cfg *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return cfg.Exchange(ctx, authCode)
}

const (
	tokenPrefix = "token-"
	tokenSuffix = ".json"
)

// TokenPath returns where the token of accountName lives inside dir.
func TokenPath(dir, accountName string) string {
	return filepath.Join(dir, tokenPrefix+accountName+tokenSuffix)
}

// SaveToken writes token as JSON, readable by the owner only.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(token); err != nil {
		f.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	return f.Close()
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("malformed token file %s: %w", path, err)
	}
	return &tok, nil
}

// DiscoverGoogleCalendars returns the ids of every calendar on the account's
// calendar list.
func (c *CalendarClient) DiscoverGoogleCalendars(ctx context.Context) ([]string, error) {
	list, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	ids := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		ids = append(ids, item.Id)
	}
	return ids, nil
}

// GetTokenAccounts returns the account names that have a token in dir.
func GetTokenAccounts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, entry := range entries {
		name, ok := strings.CutPrefix(entry.Name(), tokenPrefix)
		if !ok || entry.IsDir() {
			continue
		}
		if account, ok := strings.CutSuffix(name, tokenSuffix); ok && account != "" {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}
