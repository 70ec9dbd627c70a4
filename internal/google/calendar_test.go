package google

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
)

func TestToRemoteEvents(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	items := []*calendar.Event{
		{Id: "allday", Summary: "Holiday", Start: &calendar.EventDateTime{Date: "2026-05-01"}},
		{Id: "timed", Summary: "Standup", Location: "Room 4", Description: "daily", Start: &calendar.EventDateTime{DateTime: "2026-05-04T23:30:00Z"}},
		{Id: "nostart", Summary: "Broken"},
		{Id: "badtime", Summary: "Broken", Start: &calendar.EventDateTime{DateTime: "yesterday"}},
		{Id: "busy", Summary: "  ", Start: &calendar.EventDateTime{Date: "2026-05-04"}},
		{Id: "private", Start: &calendar.EventDateTime{Date: "2026-05-04"}},
		nil,
	}

	got := toRemoteEvents(items, "primary", berlin)
	require.Len(t, got, 2)

	assert.Equal(t, "allday", got[0].SourceID)
	assert.Equal(t, "google-primary", got[0].Source)
	assert.Equal(t, "2026-05-01", got[0].Draft.Date)
	assert.Equal(t, "Holiday", got[0].Draft.Title)

	assert.Equal(t, "2026-05-05", got[1].Draft.Date, "timed events use the local date")
	assert.Equal(t, "daily\nLocation: Room 4", got[1].Draft.Description)
}

func TestTokenRoundTripAndAccounts(t *testing.T) {
	dir := t.TempDir()
	tok := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", TokenType: "Bearer"}
	require.NoError(t, SaveToken(TokenPath(dir, "work"), tok))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0o600))

	loaded, err := tokenFromFile(TokenPath(dir, "work"))
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.AccessToken)
	assert.Equal(t, "def", loaded.RefreshToken)

	accounts, err := GetTokenAccounts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, accounts)

	info, err := os.Stat(TokenPath(dir, "work"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestGetOAuthConfig_FromEnvValues(t *testing.T) {
	cfg, err := GetOAuthConfigForAuthFlow("id", "secret")
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, []string{calendar.CalendarReadonlyScope}, cfg.Scopes)
}

func TestGetOAuthConfig_NeedsCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := GetOAuthConfigForAuthFlow("", "")
	assert.ErrorContains(t, err, "GOOGLE_CLIENT_ID")

	require.NoError(t, os.WriteFile(credentialsFile, []byte("not json"), 0o600))
	_, err = GetOAuthConfigForAuthFlow("", "")
	assert.ErrorContains(t, err, "failed to parse")
}

func TestTokenFromFile_Malformed(t *testing.T) {
	path := TokenPath(t.TempDir(), "broken")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := tokenFromFile(path)
	assert.ErrorContains(t, err, "malformed token file")
}
