// Package strava reads a runner's activities and profile from the Strava API.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/runnerr0/grass/internal/config"
	"github.com/runnerr0/grass/internal/storage"
)

// Client talks to the Strava REST API with an OAuth2 bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	perPage    int
	logger     *zap.Logger
}

// Activity is the subset of a Strava SummaryActivity this program reads.
type Activity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	SportType string    `json:"sport_type"`
	StartDate time.Time `json:"start_date"`
	Distance  float64   `json:"distance"`
}

// Athlete is the subset of a Strava DetailedAthlete this program reads.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Profile   string `json:"profile"`
}

// NewClient builds a client from cfg. When a refresh token and client
// credentials are present the token is refreshed automatically.
func NewClient(ctx context.Context, cfg config.StravaConfig, logger *zap.Logger) (*Client, error) {
	if cfg.AccessToken == "" && cfg.RefreshToken == "" {
		return nil, fmt.Errorf("strava: access_token or refresh_token is required")
	}

	token := &oauth2.Token{
		AccessToken:  cfg.AccessToken,
		RefreshToken: cfg.RefreshToken,
		TokenType:    "Bearer",
	}

	var src oauth2.TokenSource
	if cfg.RefreshToken != "" && cfg.ClientID != "" {
		oc := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		src = oc.TokenSource(ctx, token)
	} else {
		src = oauth2.StaticTokenSource(token)
	}

	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 200 {
		perPage = 100
	}

	return &Client{
		httpClient: oauth2.NewClient(ctx, src),
		baseURL:    cfg.BaseURL,
		perPage:    perPage,
		logger:     logger,
	}, nil
}

// GetAthlete fetches the authenticated athlete.
func (c *Client) GetAthlete(ctx context.Context) (*Athlete, error) {
	var a Athlete
	if err := c.get(ctx, "/athlete", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListActivities pages through /athlete/activities until an empty page.
// A non-zero after limits the listing to activities started after it.
func (c *Client) ListActivities(ctx context.Context, after time.Time) ([]Activity, error) {
	var all []Activity
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.perPage))
		if !after.IsZero() {
			q.Set("after", strconv.FormatInt(after.Unix(), 10))
		}

		var batch []Activity
		if err := c.get(ctx, "/athlete/activities", q, &batch); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		c.logger.Debug("Fetched activity page", zap.Int("page", page), zap.Int("count", len(batch)))
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ToStorage converts a Strava activity into a stored activity.
func (a Activity) ToStorage() storage.Activity {
	kind := a.Type
	if kind == "" {
		kind = a.SportType
	}
	return storage.Activity{
		ID:        "strava-" + strconv.FormatInt(a.ID, 10),
		Name:      a.Name,
		Type:      kind,
		StartDate: a.StartDate,
		Distance:  a.Distance,
		Source:    "strava",
	}
}

// ToProfile converts the athlete into the stored profile.
func (a *Athlete) ToProfile() *storage.Profile {
	return &storage.Profile{
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		AvatarURL: a.Profile,
	}
}
