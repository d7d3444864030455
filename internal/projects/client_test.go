package projects

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/api"
)

func TestCreateSendsMultipartWithJSONPartAndImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects/create", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		var req ProjectRequest
		require.NoError(t, json.Unmarshal([]byte(r.MultipartForm.Value["project"][0]), &req))
		assert.Equal(t, "Site", req.Name)

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		img, _ := io.ReadAll(file)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img)

		_ = json.NewEncoder(w).Encode(Project{ID: 3, Name: req.Name, ImageURL: "http://img"})
	}))
	defer srv.Close()

	c := New(api.NewClient(srv.URL, api.StaticToken("tok")))
	got, err := c.Create(context.Background(), ProjectRequest{Name: "Site", Price: 100}, []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)
	assert.Equal(t, "http://img", got.ImageURL)
}

func TestCreateWithoutImageOmitsFilePart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("image")
		assert.Error(t, err)
		_ = json.NewEncoder(w).Encode(Project{ID: 4})
	}))
	defer srv.Close()

	c := New(api.NewClient(srv.URL, nil))
	got, err := c.Create(context.Background(), ProjectRequest{Name: "NoImage"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ID)
}

func TestListAndDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"id":1,"name":"Site","technologies":["go"]}]`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(api.NewClient(srv.URL, nil))
	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/projects", gotPath)

	require.NoError(t, c.Delete(context.Background(), 1))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/projects/1", gotPath)
}
