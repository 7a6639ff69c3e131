package backend

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client wired to httpmock. Responders registered by
// the test apply only to this client's transport.
func newTestClient(t *testing.T, opts ...func(*Config)) *Client {
	t.Helper()

	cfg := Config{
		BaseURL:  "http://backend.test",
		CacheTTL: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := NewClient(cfg)
	require.NoError(t, err)

	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(func() {
		httpmock.DeactivateAndReset()
		c.Close()
	})
	return c
}

func TestNewClient_RequiresValidBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid http", baseURL: "http://localhost:9000", wantErr: false},
		{name: "valid https", baseURL: "https://cms.example.com", wantErr: false},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "missing scheme", baseURL: "localhost:9000", wantErr: true},
		{name: "garbage", baseURL: "://nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, c)
			} else {
				require.NoError(t, err)
				require.NotNil(t, c)
				c.Close()
			}
		})
	}
}

func TestListPosts_ParsesEnvelope(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		httpmock.NewStringResponder(http.StatusOK, `{
			"items": [
				{"id": 1, "slug": "hello-world", "title": "Hello World", "status": "published",
				 "author": {"id": 2, "username": "erin", "displayName": "Erin"},
				 "categories": [{"id": 3, "slug": "go", "name": "Go"}],
				 "tags": [{"id": 4, "slug": "testing", "name": "Testing"}]}
			],
			"pagination": {"total": 21, "page": 2, "perPage": 10, "totalPages": 3}
		}`))

	list, err := c.ListPosts(context.Background(), ListOptions{Page: 2, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	post := list.Items[0]
	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "Erin", post.Author.DisplayName)
	require.Len(t, post.Categories, 1)
	assert.Equal(t, "go", post.Categories[0].Slug)

	assert.Equal(t, 21, list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.Page)
	assert.Equal(t, 3, list.Pagination.TotalPages)
}

func TestListPosts_SendsListOptions(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "3", q.Get("page"))
			assert.Equal(t, "5", q.Get("perPage"))
			assert.Equal(t, "published", q.Get("status"))
			assert.Equal(t, "go", q.Get("category"))
			return httpmock.NewStringResponse(http.StatusOK, `{"items": [], "pagination": {}}`), nil
		})

	_, err := c.ListPosts(context.Background(), ListOptions{
		Page: 3, PerPage: 5, Status: "published", Category: "go",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGetPost_NotFound(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts/missing",
		httpmock.NewStringResponder(http.StatusNotFound, `{"error": "not found"}`))

	post, err := c.GetPost(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, post)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDo_StatusMapping(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name     string
		status   int
		body     string
		checkErr func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to ErrUnauthorized",
			status: http.StatusUnauthorized,
			body:   `{}`,
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "403 maps to ErrForbidden",
			status: http.StatusForbidden,
			body:   `{}`,
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, ErrForbidden)
			},
		},
		{
			name:   "422 surfaces field errors",
			status: http.StatusUnprocessableEntity,
			body:   `{"fields": {"title": "title is required"}}`,
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				var fieldErrs *FieldErrors
				require.ErrorAs(t, err, &fieldErrs)
				assert.Equal(t, "title is required", fieldErrs.Fields["title"])
			},
		},
		{
			name:   "422 with unparseable body still yields field errors",
			status: http.StatusUnprocessableEntity,
			body:   `not json`,
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				var fieldErrs *FieldErrors
				require.ErrorAs(t, err, &fieldErrs)
				assert.NotEmpty(t, fieldErrs.Fields)
			},
		},
		{
			name:   "500 is a generic backend error",
			status: http.StatusInternalServerError,
			body:   `{}`,
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.NotErrorIs(t, err, ErrNotFound)
				assert.Contains(t, err.Error(), "500")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("POST", "http://backend.test/api/v1/posts",
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := c.CreatePost(context.Background(), &PostInput{Title: "x"})
			require.Error(t, err)
			tt.checkErr(t, err)
		})
	}
}

func TestGet_CachesPublicReads(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		httpmock.NewStringResponder(http.StatusOK, `{"items": [], "pagination": {"total": 0}}`))

	_, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	_, err = c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)

	// Second read served from cache
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestGet_CacheKeyIncludesQuery(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		httpmock.NewStringResponder(http.StatusOK, `{"items": [], "pagination": {"total": 0}}`))

	_, err := c.ListPosts(context.Background(), ListOptions{Page: 1})
	require.NoError(t, err)
	_, err = c.ListPosts(context.Background(), ListOptions{Page: 2})
	require.NoError(t, err)

	// Distinct pages are distinct cache entries
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestMutate_InvalidatesResourceCache(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		httpmock.NewStringResponder(http.StatusOK, `{"items": [], "pagination": {"total": 0}}`))
	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/categories",
		httpmock.NewStringResponder(http.StatusOK, `[]`))
	httpmock.RegisterResponder("POST", "http://backend.test/api/v1/posts",
		httpmock.NewStringResponder(http.StatusCreated, `{"id": 9, "slug": "new-post"}`))

	// Warm both caches
	_, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	_, err = c.ListCategories(context.Background())
	require.NoError(t, err)

	post, err := c.CreatePost(context.Background(), &PostInput{Title: "New Post"})
	require.NoError(t, err)
	assert.Equal(t, "new-post", post.Slug)

	// Posts refetched, categories still cached
	_, err = c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	_, err = c.ListCategories(context.Background())
	require.NoError(t, err)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 2, info["GET http://backend.test/api/v1/posts"])
	assert.Equal(t, 1, info["GET http://backend.test/api/v1/categories"])
}

func TestWithToken_BypassesCacheAndSetsHeader(t *testing.T) {
	c := newTestClient(t)

	var gotAuth []string
	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		func(req *http.Request) (*http.Response, error) {
			gotAuth = append(gotAuth, req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `{"items": [], "pagination": {"total": 0}}`), nil
		})

	authed := c.WithToken("secret-token")
	_, err := authed.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	_, err = authed.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)

	// Every authenticated read hits the backend
	require.Len(t, gotAuth, 2)
	assert.Equal(t, "Bearer secret-token", gotAuth[0])
	assert.Equal(t, "Bearer secret-token", gotAuth[1])
}

func TestDo_SendsAPIKeyHeader(t *testing.T) {
	c := newTestClient(t, func(cfg *Config) {
		cfg.APIKey = "key-123"
	})

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "key-123", req.Header.Get("X-Api-Key"))
			assert.Equal(t, "application/json", req.Header.Get("Accept"))
			return httpmock.NewStringResponse(http.StatusOK, `{"items": [], "pagination": {}}`), nil
		})

	_, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
}

func TestLogin_ReturnsSession(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", "http://backend.test/api/v1/auth/login",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusOK, `{
				"token": "jwt-token",
				"expiresAt": "2026-09-01T12:00:00Z",
				"user": {"id": 1, "username": "admin", "role": "admin"}
			}`), nil
		})

	session, err := c.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", session.Token)
	assert.Equal(t, "admin", session.User.Username)
}

func TestLogin_BadCredentials(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", "http://backend.test/api/v1/auth/login",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"error": "bad credentials"}`))

	session, err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetGitSyncStatus_NeverCached(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/gitsync/status",
		httpmock.NewStringResponder(http.StatusOK, `{
			"enabled": true,
			"branch": "main",
			"dirty": true,
			"pendingChanges": {"posts": 2, "media": 1}
		}`))

	status, err := c.GetGitSyncStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, "main", status.Branch)
	assert.Equal(t, 3, status.PendingTotal())

	_, err = c.GetGitSyncStatus(context.Background())
	require.NoError(t, err)

	// Dashboard polls must see live state
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestGet_TransportFailure(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		httpmock.NewErrorResponder(assert.AnError))

	list, err := c.ListPosts(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Nil(t, list)
}

func TestClient_Hooks(t *testing.T) {
	c := newTestClient(t)

	var hookResource string
	var hookStatus int
	cacheLookups := make(map[bool]int)
	c.SetRequestHook(func(resource, method string, status int, duration time.Duration) {
		hookResource = resource
		hookStatus = status
	})
	c.SetCacheHook(func(resource string, hit bool) {
		cacheLookups[hit]++
	})

	httpmock.RegisterResponder("GET", "http://backend.test/api/v1/posts",
		httpmock.NewStringResponder(http.StatusOK, `{"items": [], "pagination": {}}`))

	_, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	_, err = c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, "posts", hookResource)
	assert.Equal(t, http.StatusOK, hookStatus)
	assert.Equal(t, 1, cacheLookups[false])
	assert.Equal(t, 1, cacheLookups[true])
}
