package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkl25/admin-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   json.RawMessage
}

// apiServer answers every request with status and data wrapped in the
// response envelope, and records what it received.
func apiServer(t *testing.T, status int, data interface{}) (*Client, <-chan recorded) {
	t.Helper()
	calls := make(chan recorded, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls <- recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   body,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			_ = json.NewEncoder(w).Encode(models.ErrorResponse("Notulen was changed by someone else"))
			return
		}
		_ = json.NewEncoder(w).Encode(models.SuccessResponse(data, ""))
	}))
	t.Cleanup(srv.Close)
	return New(Config{APIBaseURL: srv.URL + "/api"}, StaticSession("tok"), WithHTTPClient(srv.Client())), calls
}

func TestClientDecodesEnvelope(t *testing.T) {
	c, calls := apiServer(t, http.StatusOK, []models.Photo{{ID: "p1", Title: "Start"}})

	photos, err := c.ListAdminPhotos(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "Start", photos[0].Title)

	call := <-calls
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/api/photos/admin", call.path)
	assert.Equal(t, "Bearer tok", call.auth)
}

func TestClientAPIError(t *testing.T) {
	c, _ := apiServer(t, http.StatusConflict, nil)

	_, err := c.UpdateNotulen(context.Background(), "n1", models.UpdateNotulenRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Notulen was changed by someone else", apiErr.Message)
}

func TestClientRequests(t *testing.T) {
	reden := "klaar"
	for name, testcase := range map[string]struct {
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		"reorder album photos": {
			call: func(c *Client) error {
				return c.ReorderAlbumPhotos(context.Background(), "a1", []models.OrderItem{{ID: "p1", OrderNumber: 1}})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/api/albums/a1/photos/reorder",
			wantBody:   `{"items":[{"id":"p1","order_number":1}]}`,
		},
		"reorder sponsors": {
			call: func(c *Client) error {
				return c.ReorderSponsors(context.Background(), []models.OrderItem{{ID: "s1", OrderNumber: 0}})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/sponsors/reorder",
			wantBody:   `{"items":[{"id":"s1","order_number":0}]}`,
		},
		"bulk visibility": {
			call: func(c *Client) error {
				_, err := c.BulkSetPhotoVisibility(context.Background(), []string{"p1", "p2"}, true)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/photos/bulk/visibility",
			wantBody:   `{"ids":["p1","p2"],"visible":true}`,
		},
		"bulk album": {
			call: func(c *Client) error {
				_, err := c.BulkAddPhotosToAlbum(context.Background(), []string{"p1"}, "a1")
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/photos/bulk/albums",
			wantBody:   `{"ids":["p1"],"album_id":"a1"}`,
		},
		"finalize": {
			call: func(c *Client) error {
				_, err := c.FinalizeNotulen(context.Background(), "n1", &reden)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/notulen/n1/finalize",
			wantBody:   `{"wijziging_reden":"klaar"}`,
		},
		"rollback": {
			call: func(c *Client) error {
				_, err := c.RollbackNotulen(context.Background(), "n1", 2, nil)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/notulen/n1/rollback",
			wantBody:   `{"versie":2,"wijziging_reden":null}`,
		},
		"delete": {
			call: func(c *Client) error {
				return c.DeleteNotulen(context.Background(), "n1")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/api/notulen/n1",
		},
	} {
		t.Run(name, func(t *testing.T) {
			c, calls := apiServer(t, http.StatusOK, nil)
			require.NoError(t, testcase.call(c))

			call := <-calls
			assert.Equal(t, testcase.wantMethod, call.method)
			assert.Equal(t, testcase.wantPath, call.path)
			if testcase.wantBody != "" {
				assert.JSONEq(t, testcase.wantBody, string(call.body))
			}
		})
	}
}

func TestSearchNotulenQuery(t *testing.T) {
	c, calls := apiServer(t, http.StatusOK, models.ListResponse[models.Notulen]{
		Items: []models.Notulen{{ID: "n1"}},
		Total: 1,
		Limit: 10,
	})

	page, err := c.SearchNotulen(context.Background(), models.NotulenFilter{
		Status: models.NotulenDraft,
		Query:  "route",
		Limit:  10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)

	call := <-calls
	assert.Equal(t, "/api/notulen/search", call.path)
	assert.Equal(t, "limit=10&q=route&status=draft", call.query)
}

func TestClientWithoutToken(t *testing.T) {
	c := New(Config{APIBaseURL: "http://127.0.0.1:1"}, StaticSession(""))
	_, err := c.ListAlbums(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
