package davclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomTransport_AddsAuthAndUserAgent(t *testing.T) {
	var gotUser, gotPass, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotUA = r.UserAgent()
	}))
	defer srv.Close()

	client := &http.Client{Transport: &customTransport{Username: "me", Password: "app-pass", Transport: http.DefaultTransport}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "me", gotUser)
	assert.Equal(t, "app-pass", gotPass)
	assert.Equal(t, "eventdesk/1.0", gotUA)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(t.Context(), nil, "", "", "", "")
	assert.ErrorContains(t, err, "CALDAV_USERNAME")
}
