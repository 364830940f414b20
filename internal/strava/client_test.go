package strava

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/config"
)

func newTestClient(t *testing.T, srv *httptest.Server, perPage int) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), config.StravaConfig{
		BaseURL:     srv.URL,
		AccessToken: "tok",
		PerPage:     perPage,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestListActivities_PagesUntilEmpty(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/athlete/activities", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))

		var page []Activity
		switch r.URL.Query().Get("page") {
		case "1":
			page = []Activity{
				{ID: 1, Type: "Run", StartDate: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), Distance: 5000},
				{ID: 2, Type: "Ride", StartDate: time.Date(2024, 3, 2, 7, 0, 0, 0, time.UTC), Distance: 20000},
			}
		case "2":
			page = []Activity{{ID: 3, Type: "Run", StartDate: time.Date(2024, 3, 3, 7, 0, 0, 0, time.UTC), Distance: 3000}}
		default:
			page = []Activity{}
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv, 2).ListActivities(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[2].ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestListActivities_SendsAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1704067200", r.URL.Query().Get("after"))
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv, 0).ListActivities(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListActivities_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 0).ListActivities(context.Background(), time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGetAthlete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":7,"username":"","firstname":"Ada","lastname":"Runner","profile":"https://example.test/a.jpg"}`))
	}))
	defer srv.Close()

	a, err := newTestClient(t, srv, 0).GetAthlete(context.Background())
	require.NoError(t, err)

	p := a.ToProfile()
	assert.Equal(t, "Ada Runner", p.DisplayName())
	assert.Equal(t, "https://example.test/a.jpg", p.AvatarURL)
}

func TestNewClient_RefreshesToken(t *testing.T) {
	var tokenCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			atomic.AddInt32(&tokenCalls, 1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "cid", r.PostForm.Get("client_id"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","refresh_token":"r2","expires_in":3600}`))
		case "/athlete":
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":1,"username":"ada"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), config.StravaConfig{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth/token",
		ClientID:     "cid",
		ClientSecret: "secret",
		RefreshToken: "r1",
	}, zap.NewNop())
	require.NoError(t, err)

	a, err := c.GetAthlete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", a.Username)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), config.StravaConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestActivity_ToStorage(t *testing.T) {
	a := Activity{ID: 42, Name: "Lunch Run", SportType: "Run", StartDate: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), Distance: 5000}
	s := a.ToStorage()
	assert.Equal(t, "strava-42", s.ID)
	assert.Equal(t, "Run", s.Type)
	assert.Equal(t, "strava", s.Source)
}
