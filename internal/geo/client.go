package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"kopi-orderflow/internal/logger"

	"go.uber.org/zap"
)

// Geocoder is the external mapping collaborator. Both operations are
// best-effort: callers degrade to markers-only tracking when they fail.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinate, error)
	Route(ctx context.Context, origin, dest Coordinate) ([]Coordinate, error)
}

type httpGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPGeocoder(baseURL string) Geocoder {
	if baseURL == "" {
		logger.L().Warn("maps provider URL is empty, geocoding disabled")
	}

	return &httpGeocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Results []Coordinate `json:"results"`
}

func (g *httpGeocoder) Geocode(ctx context.Context, address string) (Coordinate, error) {
	log := logger.FromCtx(ctx).With(zap.String("address", address))

	q := url.Values{}
	q.Set("address", address)

	var resp geocodeResponse
	if err := g.get(ctx, "/geocode", q, &resp); err != nil {
		log.Warn("forward geocode failed", zap.Error(err))
		return Coordinate{}, err
	}

	if len(resp.Results) == 0 {
		return Coordinate{}, ErrNoResult
	}

	return resp.Results[0], nil
}

type routeResponse struct {
	Points []Coordinate `json:"points"`
}

func (g *httpGeocoder) Route(ctx context.Context, origin, dest Coordinate) ([]Coordinate, error) {
	log := logger.FromCtx(ctx)

	q := url.Values{}
	q.Set("from", formatCoord(origin))
	q.Set("to", formatCoord(dest))

	var resp routeResponse
	if err := g.get(ctx, "/route", q, &resp); err != nil {
		log.Warn("route lookup failed", zap.Error(err))
		return nil, err
	}

	if len(resp.Points) == 0 {
		return nil, ErrNoRoute
	}

	return resp.Points, nil
}

func (g *httpGeocoder) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("maps provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read maps response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps provider returned %d: %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

func formatCoord(c Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}
