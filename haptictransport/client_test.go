package haptictransport

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/haptic-sync/beatctl/haptictests"
)

func TestClientDo(t *testing.T) {
	t.Parallel()

	_, testServerURL := haptictests.HTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/success":
			w.WriteHeader(http.StatusOK)
		case "/created":
			w.WriteHeader(http.StatusCreated)
		case "/badRequest":
			w.WriteHeader(http.StatusBadRequest)
		case "/unauthorized":
			w.WriteHeader(http.StatusUnauthorized)
		case "/redirect":
			w.WriteHeader(http.StatusTemporaryRedirect)
		case "/failure":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	tests := []struct {
		name           string
		method         string
		url            string
		expectedStatus int
	}{
		{"GET success", "GET", testServerURL + "/success", http.StatusOK},
		{"POST success", "POST", testServerURL + "/created", http.StatusCreated},
		{"GET bad request", "GET", testServerURL + "/badRequest", http.StatusBadRequest},
		{"GET unauthorized", "GET", testServerURL + "/unauthorized", http.StatusUnauthorized},
		{"GET redirect", "GET", testServerURL + "/redirect", http.StatusTemporaryRedirect},
		{"GET failure", "GET", testServerURL + "/failure", http.StatusInternalServerError},
		{"GET not found", "GET", testServerURL + "/notfound", http.StatusNotFound},
	}

	client := NewClient()

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.DoJSON(context.Background(), tt.method, tt.url, nil)
			if err != nil {
				var errResp *ErrorResponse
				if !errors.As(err, &errResp) {
					t.Fatal(err, "unexpected error type received")
				}

				assert.Equal(
					t,
					tt.expectedStatus,
					err.(*ErrorResponse).Response.StatusCode,
					"status code should match",
				)
			}

			assert.NotNil(t, resp, "response should not be nil")
			assert.Equal(t, tt.expectedStatus, resp.StatusCode, "status code should match")
		})
	}
}

func TestClientDoWithTimeoutClientOption(t *testing.T) {
	t.Parallel()

	timeout := 100 * time.Millisecond

	_, testServerURL := haptictests.HTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/success":
			w.WriteHeader(http.StatusOK)
		case "/timeout":
			time.Sleep(timeout + time.Millisecond*10)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	tests := []struct {
		name           string
		method         string
		url            string
		expectedStatus int
		expectTimeout  bool
	}{
		{"GET success", "GET", testServerURL + "/success", http.StatusOK, false},
		{"GET timeout", "GET", testServerURL + "/timeout", http.StatusInternalServerError, true},
	}

	client := NewClient(WithTimeout(timeout))

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.DoJSON(context.Background(), tt.method, tt.url, nil)
			if err != nil {
				if !tt.expectTimeout {
					t.Fatal(err, "unexpected error type received")
				}

				var urlErr *url.Error
				if errors.As(err, &urlErr) {
					assert.True(t, urlErr.Timeout(), "timeout should be true")
				}

				assert.Nil(t, resp, "response should be nil")

				return
			}

			assert.NotNil(t, resp, "response should not be nil")
			assert.Equal(t, tt.expectedStatus, resp.StatusCode, "status code should match")
		})
	}
}

func TestClientDoWithContextTimeout(t *testing.T) {
	t.Parallel()

	timeout := 100 * time.Millisecond

	_, testServerURL := haptictests.HTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/success":
			w.WriteHeader(http.StatusOK)
		case "/timeout":
			time.Sleep(timeout + time.Millisecond*10)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	tests := []struct {
		name           string
		method         string
		url            string
		expectedStatus int
		expectTimeout  bool
	}{
		{"GET success", "GET", testServerURL + "/success", http.StatusOK, false},
		{"GET timeout", "GET", testServerURL + "/timeout", http.StatusInternalServerError, true},
	}

	client := NewClient()

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := haptictests.ContextWithTimeout(t, timeout)
			defer cancel()

			resp, err := client.DoJSON(ctx, tt.method, tt.url, nil)
			if err != nil {
				if !tt.expectTimeout {
					t.Fatal(err, "unexpected error type received")
				}

				var expErr ErrorResponse

				assert.ErrorAs(t, err, &expErr, "expected ErrorResponse")

				if respErr, ok := err.(ErrorResponse); ok && respErr.Response != nil {
					assert.ErrorIs(t, respErr.Original, context.DeadlineExceeded, "context deadline exceeded error should be returned")
				}

				return
			}

			assert.NotNil(t, resp, "response should not be nil")
			assert.Equal(t, tt.expectedStatus, resp.StatusCode, "status code should match")
		})
	}
}

func TestClientDoWithAppNameOption(t *testing.T) {
	t.Parallel()

	_, testServerURL := haptictests.HTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test", r.Header.Get("User-Agent"))
	}))

	client := NewClient(WithAppName("test"))

	resp, err := client.DoJSON(context.Background(), "GET", testServerURL, nil)
	assert.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestClientDoWithBasicAuthOption(t *testing.T) {
	t.Parallel()

	_, testServerURL := haptictests.HTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("username:password"))
		assert.Equal(t, expectedAuth, auth)
	}))

	client := NewClient(WithBasicAuth("username", "password"))

	resp, err := client.DoJSON(context.Background(), "GET", testServerURL, nil)
	assert.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestClientDoWithHeaderOption(t *testing.T) {
	t.Parallel()

	_, testServerURL := haptictests.HTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test", r.Header.Get("key"))
	}))

	client := NewClient(WithHeader("key", "test"))

	resp, err := client.DoJSON(context.Background(), "GET", testServerURL, nil)
	assert.NoError(t, err)
	assert.NotNil(t, resp)
}
