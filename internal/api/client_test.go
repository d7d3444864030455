package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("abc"))
	require.NoError(t, c.JSON(context.Background(), "GET", "/ping", nil, nil))
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestAnonymousWhenNoToken(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// empty token source and nil token source both go out anonymous
	for _, tokens := range []TokenSource{StaticToken(""), nil} {
		c := NewClient(srv.URL, tokens)
		require.NoError(t, c.JSON(context.Background(), "GET", "/ping", nil, nil))
		assert.Empty(t, gotAuth)
		assert.False(t, sawHeader)
	}
}

func TestErrorBodyDecoding(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"invalid email or password"}`, "invalid email or password"},
		{"error field", `{"error":"boom"}`, "boom"},
		{"plain text", `something went wrong`, "something went wrong"},
		{"empty body", ``, "Not Found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, nil)
			err := c.JSON(context.Background(), "GET", "/x", nil, nil)
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusNotFound, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestTextReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Reset instructions sent"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	got, err := c.Text(context.Background(), "POST", "/password/password-reset-request/a@b.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "Reset instructions sent", got)
}

func TestJSONEncodesRequestBody(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	require.NoError(t, c.JSON(context.Background(), "POST", "/x", payload{Email: "a@b.com"}, nil))
	assert.Equal(t, "a@b.com", got.Email)
}
