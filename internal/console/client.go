package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

// Client talks to the medusa console's /api/tv surface. All methods are
// pull-based; nothing here retries on its own — callers decide whether a
// failure is fatal (bootstrap) or just skipped until the next tick
// (heartbeat, command poll).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Bootstrap is the one-shot reference data load the player performs at
// process start (and after every full reload).
type Bootstrap struct {
	Screen    model.Screen      `json:"screen"`
	Location  model.Location    `json:"location"`
	Campaigns []model.Campaign  `json:"campaigns"`
	Media     []model.MediaItem `json:"media"`
	News      []model.NewsItem  `json:"news"`
}

// FetchBootstrap loads the screen, its location, the location's campaigns
// and media, and the shared news pool in one request.
func (c *Client) FetchBootstrap(ctx context.Context) (*Bootstrap, error) {
	var out Bootstrap
	if err := c.get(ctx, "/api/tv/bootstrap", &out); err != nil {
		return nil, fmt.Errorf("fetch bootstrap: %w", err)
	}
	return &out, nil
}

// Heartbeat reports liveness for the screen. Idempotent, fire-and-forget.
func (c *Client) Heartbeat(ctx context.Context, slug, deviceID string) error {
	body := map[string]string{"screen_slug": slug, "device_id": deviceID}
	if err := c.post(ctx, "/api/tv/screens/"+slug+"/heartbeat", body, nil); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}

// PendingCommands pulls the ordered list of commands queued for the screen.
// Each command is delivered once; the console drops it from the queue after
// it is acknowledged.
func (c *Client) PendingCommands(ctx context.Context, slug string) ([]model.Command, error) {
	var out []model.Command
	if err := c.get(ctx, "/api/tv/screens/"+slug+"/commands", &out); err != nil {
		return nil, fmt.Errorf("pending commands: %w", err)
	}
	return out, nil
}

// AckCommand reports a command's result, exactly once per command id.
func (c *Client) AckCommand(ctx context.Context, result model.CommandResult) error {
	path := fmt.Sprintf("/api/tv/commands/%d/ack", result.CommandID)
	if err := c.post(ctx, path, result, nil); err != nil {
		return fmt.Errorf("ack command %d: %w", result.CommandID, err)
	}
	return nil
}

// Weather resolves current conditions for a city via the console's
// integration endpoint.
func (c *Client) Weather(ctx context.Context, city string) (*model.Weather, error) {
	var out model.Weather
	path := "/api/tv/integrations/weather?city=" + strings.ReplaceAll(city, " ", "+")
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	return &out, nil
}

// Rates resolves currency conversion rates via the console's integration
// endpoint.
func (c *Client) Rates(ctx context.Context) (*model.Rates, error) {
	var out model.Rates
	if err := c.get(ctx, "/api/tv/integrations/currency", &out); err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
