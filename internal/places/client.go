package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopscout-engine/internal/domain"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the Places "find place" and "details" endpoints. It never
// retries and never caches; every call is a round trip.
type Client struct {
	cfg Config
	hc  *http.Client
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
		log: log,
	}
}

type findPlaceResponse struct {
	Status     string `json:"status"`
	Candidates []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
	ErrorMessage string `json:"error_message"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Website string `json:"website"`
		URL     string `json:"url"`
	} `json:"result"`
	ErrorMessage string `json:"error_message"`
}

// FindPlace searches for query and returns the first candidate's place id.
func (c *Client) FindPlace(ctx context.Context, query string) PlaceLookup {
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("input", query)
	q.Set("inputtype", "textquery")
	q.Set("fields", "place_id")

	var body findPlaceResponse
	if err := c.getJSON(ctx, "/findplacefromtext/json", q, &body); err != nil {
		c.log.Debug("find place failed", zap.String("query", query), zap.Error(err))
		return PlaceLookup{Status: StatusFailed, Err: err}
	}
	if err := apiStatusErr(body.Status, body.ErrorMessage); err != nil {
		c.log.Debug("find place rejected", zap.String("query", query), zap.Error(err))
		return PlaceLookup{Status: StatusFailed, Err: err}
	}

	if len(body.Candidates) == 0 || strings.TrimSpace(body.Candidates[0].PlaceID) == "" {
		return PlaceLookup{Status: StatusNotFound}
	}
	return PlaceLookup{PlaceID: body.Candidates[0].PlaceID, Status: StatusFound}
}

// Details fetches the website and canonical maps URL for placeID.
// StatusNotFound means the place exists but lists no website.
func (c *Client) Details(ctx context.Context, placeID string) DetailsLookup {
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("place_id", placeID)
	q.Set("fields", "website,url")

	var body detailsResponse
	if err := c.getJSON(ctx, "/details/json", q, &body); err != nil {
		c.log.Debug("details failed", zap.String("place_id", placeID), zap.Error(err))
		return DetailsLookup{Status: StatusFailed, Err: err}
	}
	if err := apiStatusErr(body.Status, body.ErrorMessage); err != nil {
		c.log.Debug("details rejected", zap.String("place_id", placeID), zap.Error(err))
		return DetailsLookup{Status: StatusFailed, Err: err}
	}

	e := domain.Enrichment{
		Website: strings.TrimSpace(body.Result.Website),
		MapsURL: strings.TrimSpace(body.Result.URL),
	}
	st := StatusFound
	if e.Website == "" {
		st = StatusNotFound
	}
	return DetailsLookup{Enrichment: e, Status: st}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.cfg.BaseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("places build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shopscout/1.0 (+local)")

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("places get %s: %w", path, redactKey(err, c.cfg.APIKey))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("places %s status %d: %q", path, res.StatusCode, string(b))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("places %s decode: %w", path, err)
	}
	return nil
}

// apiStatusErr maps the status field of a Places response. An empty status
// is accepted so minimal stubs still work.
func apiStatusErr(status, msg string) error {
	switch status {
	case "", "OK", "ZERO_RESULTS", "NOT_FOUND":
		return nil
	}
	if msg != "" {
		return fmt.Errorf("places status %s: %s", status, msg)
	}
	return fmt.Errorf("places status %s", status)
}

// redactKey keeps the API key out of url.Error messages.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	if ue, ok := err.(*url.Error); ok {
		return &url.Error{Op: ue.Op, URL: strings.ReplaceAll(ue.URL, url.QueryEscape(key), "REDACTED"), Err: ue.Err}
	}
	return err
}
