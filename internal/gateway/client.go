package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/logger"
	"kopi-orderflow/internal/order"
	"kopi-orderflow/internal/session"

	"go.uber.org/zap"
)

type httpGateway struct {
	baseURL    string
	actor      session.Actor
	httpClient *http.Client
}

// NewHTTPGateway builds a gateway scoped to one actor. The actor's token is
// attached to every request; the backend derives visibility and permissions
// from it.
func NewHTTPGateway(baseURL string, actor session.Actor) Gateway {
	if actor.Token == "" {
		logger.L().Warn("gateway built without a session token")
	}

	return &httpGateway{
		baseURL: baseURL,
		actor:   actor,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *httpGateway) ListOrders(ctx context.Context, filter ListFilter) ([]order.Order, error) {
	q := url.Values{}
	q.Set("type", string(filter.Type))
	if filter.Status != nil {
		q.Set("status", string(*filter.Status))
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resp listOrdersResponse
	if err := g.call(ctx, "list orders", http.MethodGet, "/orders?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	return toOrders(resp.Data), nil
}

func (g *httpGateway) GetOrder(ctx context.Context, id int) (*order.Order, error) {
	var resp orderResponse
	if err := g.call(ctx, "get order", http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &resp); err != nil {
		return nil, err
	}

	o := toOrder(resp.Data)
	return &o, nil
}

func (g *httpGateway) TransitionStatus(ctx context.Context, id int, target order.Status) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int("order_id", id),
		zap.String("target_status", string(target)),
	)

	body := transitionRequest{Status: string(target)}

	var resp orderResponse
	if err := g.call(ctx, "transition status", http.MethodPatch, fmt.Sprintf("/orders/%d/status", id), body, &resp); err != nil {
		log.Warn("status transition rejected", zap.Error(err))
		return nil, err
	}

	log.Info("status transition confirmed")
	o := toOrder(resp.Data)
	return &o, nil
}

func (g *httpGateway) ClaimOrder(ctx context.Context, id int) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(zap.Int("order_id", id))

	var resp orderResponse
	if err := g.call(ctx, "claim order", http.MethodPost, fmt.Sprintf("/orders/%d/claim", id), nil, &resp); err != nil {
		log.Warn("claim attempt failed", zap.Error(err))
		return nil, err
	}

	log.Info("order claimed")
	o := toOrder(resp.Data)
	return &o, nil
}

func (g *httpGateway) GetShippingInfo(ctx context.Context, id int) (*ShippingInfo, error) {
	var resp shippingInfoResponse
	if err := g.call(ctx, "get shipping info", http.MethodGet, fmt.Sprintf("/shipping/%d/info", id), nil, &resp); err != nil {
		return nil, err
	}

	return toShippingInfo(resp.Data), nil
}

// GetShipperLocation returns nil without error when the shipper has not
// reported a position yet; that is an expected state, not a failure.
func (g *httpGateway) GetShipperLocation(ctx context.Context, id int) (*geo.Coordinate, error) {
	var dto *locationDTO
	if err := g.call(ctx, "get shipper location", http.MethodGet, fmt.Sprintf("/shipping/%d/location", id), nil, &dto); err != nil {
		return nil, err
	}

	if dto == nil {
		return nil, nil
	}

	return &geo.Coordinate{Lat: dto.Lat, Lng: dto.Lng}, nil
}

func (g *httpGateway) ReportShipperLocation(ctx context.Context, id int, coord geo.Coordinate) error {
	body := locationDTO{Lat: coord.Lat, Lng: coord.Lng}
	return g.call(ctx, "report shipper location", http.MethodPost, fmt.Sprintf("/shipping/%d/location", id), body, nil)
}

// call performs one backend request and maps the response onto the error
// taxonomy. out may be nil for calls without a response body.
func (g *httpGateway) call(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+g.actor.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return g.mapError(op, resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}

	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// mapError classifies a non-2xx backend answer. The backend is the single
// arbiter for claims and transitions, so its verdict is mapped onto the same
// sentinels the fail-fast client checks use.
func (g *httpGateway) mapError(op string, code int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	detail := er.Error
	if detail == "" {
		detail = string(body)
	}

	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", order.ErrOrderNotFound, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", order.ErrAlreadyClaimed, detail)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", order.ErrNotClaimOwner, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", order.ErrInvalidTransition, detail)
	default:
		return &NetworkError{Op: op, Err: fmt.Errorf("backend returned %d: %s", code, detail)}
	}
}
