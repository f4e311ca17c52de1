package publish

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-catalog/utils"
)

func newTestS3(t *testing.T, endpoint string) *S3Publisher {
	p, err := NewS3Publisher(context.Background(), S3Config{
		Bucket:    "catalog",
		Region:    "us-east-1",
		Endpoint:  endpoint,
		AccessKey: "key",
		SecretKey: "secret",
		Prefix:    "site",
	}, utils.NewNopLogger())
	require.NoError(t, err)
	return p
}

func TestS3Publish(t *testing.T) {
	var method, path, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out, err := newTestS3(t, srv.URL).Publish(context.Background(), Input{
		Path:    "data/inventory.json",
		Content: []byte(`{"items": []}`),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/catalog/site/data/inventory.json", path)
	assert.Equal(t, "application/json; charset=utf-8", contentType)
	assert.Equal(t, `"etag-1"`, out.Version)
}

func TestS3PublishFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
	}))
	defer srv.Close()

	_, err := newTestS3(t, srv.URL).Publish(context.Background(), Input{Path: "data/inventory.json", Content: []byte("{}")})
	require.Error(t, err)

	var pubErr *Error
	require.True(t, errors.As(err, &pubErr))
	assert.Equal(t, "s3", pubErr.Target)
}
