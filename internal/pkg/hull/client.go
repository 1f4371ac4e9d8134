package hull

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client writes profiles and events into the Hull platform for one
// connector installation.
type Client struct {
	OrgURL string // e.g. https://acme.hullapp.io
	AppID  string // connector installation id
	Secret string

	HTTPClient *http.Client
}

// NewClient creates a platform client for one installation.
func NewClient(orgURL, appID, secret string) *Client {
	return &Client{
		OrgURL: strings.TrimRight(strings.TrimSpace(orgURL), "/"),
		AppID:  strings.TrimSpace(appID),
		Secret: secret,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type firehoseItem struct {
	Type        string      `json:"type"`
	Timestamp   string      `json:"timestamp"`
	Claims      interface{} `json:"claims"`
	ClaimsScope string      `json:"claims_scope"`
	Body        interface{} `json:"body"`
}

type firehoseBatch struct {
	Batch []firehoseItem `json:"batch"`
}

// UserTraits writes attributes onto the user identified by claims.
func (c *Client) UserTraits(ctx context.Context, claims UserClaims, attrs Attributes) error {
	if claims == (UserClaims{}) {
		return errors.New("hull: user traits require at least one claim")
	}
	return c.firehose(ctx, firehoseItem{
		Type:        "traits",
		Claims:      claims,
		ClaimsScope: "user",
		Body:        attrs,
	})
}

// AccountTraits writes attributes onto the account identified by claims.
func (c *Client) AccountTraits(ctx context.Context, claims AccountClaims, attrs Attributes) error {
	if claims == (AccountClaims{}) {
		return errors.New("hull: account traits require at least one claim")
	}
	return c.firehose(ctx, firehoseItem{
		Type:        "traits",
		Claims:      claims,
		ClaimsScope: "account",
		Body:        attrs,
	})
}

// UserTrack records an event on the user identified by claims. The event id
// in the context makes redeliveries idempotent on the platform side.
func (c *Client) UserTrack(ctx context.Context, claims UserClaims, event Event) error {
	if claims == (UserClaims{}) {
		return errors.New("hull: track requires at least one claim")
	}
	return c.firehose(ctx, firehoseItem{
		Type:        "track",
		Claims:      claims,
		ClaimsScope: "user",
		Body:        event,
	})
}

// PutStatus reports connector health to the platform.
func (c *Client) PutStatus(ctx context.Context, status Status) error {
	endpoint := fmt.Sprintf("%s/api/v1/%s/status", c.OrgURL, c.AppID)
	return c.send(ctx, http.MethodPut, endpoint, status)
}

func (c *Client) firehose(ctx context.Context, items ...firehoseItem) error {
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range items {
		items[i].Timestamp = now
	}
	endpoint := fmt.Sprintf("%s/api/v1/firehose", c.OrgURL)
	return c.send(ctx, http.MethodPost, endpoint, firehoseBatch{Batch: items})
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Hull-App-Id", c.AppID)
	req.Header.Set("Hull-Access-Token", c.Secret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hull request failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
