package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-catalog/utils"
)

const contentsPath = "/repos/acme/catalog/contents/data/inventory.json"

type putBody struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch"`
}

type fakeGitHub struct {
	mu       sync.Mutex
	existing string
	getRef   string
	puts     []putBody
	putCode  int
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		if r.URL.Path != contentsPath {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			f.getRef = r.URL.Query().Get("ref")
			if f.existing == "" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"type":"file","path":"data/inventory.json","sha":"` + f.existing + `"}`))
		case http.MethodPut:
			var body putBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.puts = append(f.puts, body)
			code := f.putCode
			if code == 0 {
				code = http.StatusOK
			}
			w.WriteHeader(code)
			if code >= 300 {
				_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"content":{"html_url":"https://example.test/acme/catalog/blob/main/data/inventory.json"},"commit":{"sha":"c0ffee"}}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestPublisher(t *testing.T, srv *httptest.Server) *GitHubPublisher {
	p, err := NewGitHubPublisher(GitHubConfig{
		Token:      "secret",
		Repo:       "acme/catalog",
		Branch:     "main",
		BaseURL:    srv.URL,
		MaxRetries: 1,
	}, utils.NewNopLogger())
	require.NoError(t, err)
	return p
}

func TestGitHubPublishCreates(t *testing.T) {
	fake := &fakeGitHub{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	out, err := newTestPublisher(t, srv).Publish(context.Background(), Input{
		Path:    "data/inventory.json",
		Content: []byte(`{"items": []}`),
		Message: "Update inventory catalog data",
	})
	require.NoError(t, err)

	assert.True(t, out.Created)
	assert.Equal(t, "c0ffee", out.Version)
	assert.Equal(t, "main", fake.getRef)
	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Empty(t, put.SHA)
	assert.Equal(t, "main", put.Branch)
	assert.Equal(t, "Update inventory catalog data", put.Message)
	decoded, err := base64.StdEncoding.DecodeString(put.Content)
	require.NoError(t, err)
	assert.Equal(t, `{"items": []}`, string(decoded))
}

func TestGitHubPublishUpdates(t *testing.T) {
	fake := &fakeGitHub{existing: "abc123"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	out, err := newTestPublisher(t, srv).Publish(context.Background(), Input{
		Path:    "data/inventory.json",
		Content: []byte("{}"),
		Message: "msg",
	})
	require.NoError(t, err)

	assert.False(t, out.Created)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "abc123", fake.puts[0].SHA)
}

func TestGitHubPublishFailure(t *testing.T) {
	fake := &fakeGitHub{putCode: http.StatusUnauthorized}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	_, err := newTestPublisher(t, srv).Publish(context.Background(), Input{Path: "data/inventory.json", Message: "m"})
	require.Error(t, err)

	var pubErr *Error
	require.True(t, errors.As(err, &pubErr))
	assert.Equal(t, "github", pubErr.Target)
}

func TestNewGitHubPublisherRejectsBadRepo(t *testing.T) {
	_, err := NewGitHubPublisher(GitHubConfig{Repo: "catalog"}, nil)
	assert.Error(t, err)
}

func TestRetryableGitHub(t *testing.T) {
	assert.True(t, retryableGitHub(errors.New("connection reset")))
}
