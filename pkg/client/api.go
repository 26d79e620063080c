package client

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

	"github.com/dkl25/admin-api/pkg/models"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the API or from Supabase Auth.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL    string
	session    SessionProvider
	httpClient *http.Client
	log        *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(cfg Config, session SessionProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:    cfg.APIBaseURL,
		session:    session,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends body as JSON and decodes the data field of the envelope into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		token, err := c.session.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)
	if resp.StatusCode >= 400 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = string(respBody)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// Albums

func (c *Client) ListAlbums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	err := c.do(ctx, http.MethodGet, "/albums", nil, &albums)
	return albums, err
}

func (c *Client) AlbumPhotos(ctx context.Context, albumID string) ([]models.Photo, error) {
	var photos []models.Photo
	err := c.do(ctx, http.MethodGet, "/albums/"+url.PathEscape(albumID)+"/photos", nil, &photos)
	return photos, err
}

func (c *Client) ReorderAlbums(ctx context.Context, items []models.OrderItem) error {
	return c.do(ctx, http.MethodPost, "/albums/reorder", models.ReorderRequest{Items: items}, nil)
}

func (c *Client) ReorderAlbumPhotos(ctx context.Context, albumID string, items []models.OrderItem) error {
	return c.do(ctx, http.MethodPut, "/albums/"+url.PathEscape(albumID)+"/photos/reorder", models.ReorderRequest{Items: items}, nil)
}

// Photos

func (c *Client) ListAdminPhotos(ctx context.Context) ([]models.Photo, error) {
	var photos []models.Photo
	err := c.do(ctx, http.MethodGet, "/photos/admin", nil, &photos)
	return photos, err
}

func (c *Client) ReorderPhotos(ctx context.Context, items []models.OrderItem) error {
	return c.do(ctx, http.MethodPost, "/photos/reorder", models.ReorderRequest{Items: items}, nil)
}

func (c *Client) BulkDeletePhotos(ctx context.Context, ids []string) (models.BulkResult, error) {
	var res models.BulkResult
	err := c.do(ctx, http.MethodPost, "/photos/bulk/delete", models.BulkIDsRequest{IDs: ids}, &res)
	return res, err
}

func (c *Client) BulkSetPhotoVisibility(ctx context.Context, ids []string, visible bool) (models.BulkResult, error) {
	var res models.BulkResult
	err := c.do(ctx, http.MethodPost, "/photos/bulk/visibility", models.BulkVisibilityRequest{IDs: ids, Visible: visible}, &res)
	return res, err
}

func (c *Client) BulkAddPhotosToAlbum(ctx context.Context, ids []string, albumID string) (models.BulkResult, error) {
	var res models.BulkResult
	err := c.do(ctx, http.MethodPost, "/photos/bulk/albums", models.BulkAlbumRequest{IDs: ids, AlbumID: albumID}, &res)
	return res, err
}

// Sponsors, partners and videos

func (c *Client) ListSponsors(ctx context.Context) ([]models.Sponsor, error) {
	var out []models.Sponsor
	err := c.do(ctx, http.MethodGet, "/sponsors", nil, &out)
	return out, err
}

func (c *Client) ReorderSponsors(ctx context.Context, items []models.OrderItem) error {
	return c.do(ctx, http.MethodPost, "/sponsors/reorder", models.ReorderRequest{Items: items}, nil)
}

func (c *Client) ListPartners(ctx context.Context) ([]models.Partner, error) {
	var out []models.Partner
	err := c.do(ctx, http.MethodGet, "/partners", nil, &out)
	return out, err
}

func (c *Client) ReorderPartners(ctx context.Context, items []models.OrderItem) error {
	return c.do(ctx, http.MethodPost, "/partners/reorder", models.ReorderRequest{Items: items}, nil)
}

func (c *Client) ListVideos(ctx context.Context) ([]models.Video, error) {
	var out []models.Video
	err := c.do(ctx, http.MethodGet, "/videos", nil, &out)
	return out, err
}

func (c *Client) ReorderVideos(ctx context.Context, items []models.OrderItem) error {
	return c.do(ctx, http.MethodPost, "/videos/reorder", models.ReorderRequest{Items: items}, nil)
}

// Notulen

func (c *Client) SearchNotulen(ctx context.Context, filter models.NotulenFilter) (models.ListResponse[models.Notulen], error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	if filter.From != nil {
		q.Set("from", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		q.Set("to", filter.To.Format("2006-01-02"))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}
	endpoint := "/notulen/search"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var page models.ListResponse[models.Notulen]
	err := c.do(ctx, http.MethodGet, endpoint, nil, &page)
	return page, err
}

func (c *Client) GetNotulen(ctx context.Context, id string) (*models.NotulenDetail, error) {
	var detail models.NotulenDetail
	if err := c.do(ctx, http.MethodGet, "/notulen/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) CreateNotulen(ctx context.Context, req models.NotulenRequest) (*models.Notulen, error) {
	var n models.Notulen
	if err := c.do(ctx, http.MethodPost, "/notulen", req, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) UpdateNotulen(ctx context.Context, id string, req models.UpdateNotulenRequest) (*models.Notulen, error) {
	var n models.Notulen
	if err := c.do(ctx, http.MethodPut, "/notulen/"+url.PathEscape(id), req, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) FinalizeNotulen(ctx context.Context, id string, reden *string) (*models.Notulen, error) {
	return c.statusChange(ctx, id, "finalize", reden)
}

func (c *Client) ArchiveNotulen(ctx context.Context, id string, reden *string) (*models.Notulen, error) {
	return c.statusChange(ctx, id, "archive", reden)
}

func (c *Client) statusChange(ctx context.Context, id, action string, reden *string) (*models.Notulen, error) {
	var n models.Notulen
	err := c.do(ctx, http.MethodPost, "/notulen/"+url.PathEscape(id)+"/"+action, models.StatusChangeRequest{WijzigingReden: reden}, &n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) RollbackNotulen(ctx context.Context, id string, versie int, reden *string) (*models.Notulen, error) {
	var n models.Notulen
	err := c.do(ctx, http.MethodPost, "/notulen/"+url.PathEscape(id)+"/rollback", models.RollbackRequest{Versie: versie, WijzigingReden: reden}, &n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNotulen(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notulen/"+url.PathEscape(id), nil, nil)
}

func (c *Client) NotulenVersions(ctx context.Context, id string) ([]models.NotulenVersion, error) {
	var versions []models.NotulenVersion
	err := c.do(ctx, http.MethodGet, "/notulen/"+url.PathEscape(id)+"/versions", nil, &versions)
	return versions, err
}
