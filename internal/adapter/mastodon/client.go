package mastodon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/observability"
)

const (
	apiName = "mastodon"

	endpointStatuses = "/api/v1/statuses"
	endpointMedia    = "/api/v2/media"

	// maxPhotoBytes caps photo downloads; Mastodon rejects larger images anyway.
	maxPhotoBytes = 16 << 20
)

// Options configures a Client.
type Options struct {
	Host         string
	Token        string
	Visibility   string
	AttachPhotos bool
	Timeout      time.Duration
}

// Client publishes statuses to a Mastodon-compatible server.
type Client struct {
	httpClient   *http.Client
	host         string
	token        string
	visibility   string
	attachPhotos bool
	maxPhoto     int64
	newKey       func() string
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates a publishing client authenticated with a bearer token.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		host:         strings.TrimRight(opts.Host, "/"),
		token:        opts.Token,
		visibility:   opts.Visibility,
		attachPhotos: opts.AttachPhotos,
		maxPhoto:     maxPhotoBytes,
		newKey:       uuid.NewString,
		metrics:      metrics,
		logger:       logger,
	}
}

type statusRequest struct {
	Status      string   `json:"status"`
	Visibility  string   `json:"visibility"`
	InReplyToID string   `json:"in_reply_to_id,omitempty"`
	MediaIDs    []string `json:"media_ids,omitempty"`
}

var errMissingID = errors.New("response has no id")

type idResponse struct {
	ID string `json:"id"`
}

// UnmarshalJSON accepts the id as a JSON string or number; servers differ.
func (r *idResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = ""
	if len(raw.ID) == 0 || string(raw.ID) == "null" {
		return nil
	}
	if raw.ID[0] == '"' {
		return json.Unmarshal(raw.ID, &r.ID)
	}
	var n json.Number
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	r.ID = n.String()
	return nil
}

// Publish creates a status for post and returns its id. When photo
// attachment is enabled, a failed upload degrades to a text-only status.
func (c *Client) Publish(ctx context.Context, post domain.Post) (string, error) {
	req := statusRequest{
		Status:      post.Body,
		Visibility:  c.visibility,
		InReplyToID: post.InReplyTo,
	}

	if c.attachPhotos && post.PhotoURL != "" {
		mediaID, err := c.UploadMedia(ctx, post.PhotoURL, post.PhotoDescription)
		if err != nil {
			c.logger.Warn("photo upload failed, publishing without media",
				"photo_url", post.PhotoURL,
				"error", err,
			)
		} else {
			req.MediaIDs = []string{mediaID}
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode status: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+endpointStatuses, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", c.newKey())

	id, err := c.create(httpReq, endpointStatuses)
	if err != nil {
		return "", err
	}

	c.logger.Info("status published", "id", id, "in_reply_to_id", post.InReplyTo, "media", len(req.MediaIDs))
	return id, nil
}

// UploadMedia downloads the photo at photoURL and uploads it as a media
// attachment with description as alt text. Returns the media id.
func (c *Client) UploadMedia(ctx context.Context, photoURL, description string) (string, error) {
	photo, err := c.download(ctx, photoURL)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", path.Base(photoURL))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if description != "" {
		if err := mw.WriteField("description", description); err != nil {
			return "", fmt.Errorf("write description: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+endpointMedia, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.create(req, endpointMedia)
}

// create sends a request that makes a new resource and returns its id. A
// success response without an id is an error: replies need the parent id.
func (c *Client) create(req *http.Request, endpoint string) (string, error) {
	var resp idResponse
	if err := c.do(req, endpoint, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &domain.UpstreamError{API: apiName, Endpoint: endpoint, Err: errMissingID}
	}
	return resp.ID, nil
}

func (c *Client) download(ctx context.Context, photoURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create photo request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{API: "photo", Endpoint: photoURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{API: "photo", Endpoint: photoURL, StatusCode: resp.StatusCode}
	}
	photo, err := io.ReadAll(io.LimitReader(resp.Body, c.maxPhoto+1))
	if err != nil {
		return nil, &domain.UpstreamError{API: "photo", Endpoint: photoURL, Err: err}
	}
	if int64(len(photo)) > c.maxPhoto {
		return nil, fmt.Errorf("photo %s is larger than %d bytes", photoURL, c.maxPhoto)
	}
	return photo, nil
}

// do sends an authenticated request and decodes the JSON response into out.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIDuration.WithLabelValues(apiName, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(apiName, "error").Inc()
		return &domain.UpstreamError{API: apiName, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.APIRequests.WithLabelValues(apiName, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &domain.UpstreamError{API: apiName, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.APIRequests.WithLabelValues(apiName, "error").Inc()
		return &domain.UpstreamError{API: apiName, Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.metrics.APIRequests.WithLabelValues(apiName, "success").Inc()
	return nil
}
