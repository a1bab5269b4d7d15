package market

import (
	"KolDesk/entity"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(baseURL string) *MarketService {
	return &MarketService{
		baseURL: baseURL,
		client:  http.DefaultClient,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestUploadImageRejectsBadFiles(t *testing.T) {
	// Any request reaching the server means validation let a bad file
	// through.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	s := newTestService(server.URL)

	cases := []struct {
		name     string
		filename string
		size     int64
		wantErr  string
	}{
		{"text file", "notes.txt", 100, "unsupported image type"},
		{"gif", "clip.gif", 100, "unsupported image type"},
		{"no extension", "banner", 100, "unsupported image type"},
		{"oversize png", "banner.png", entity.MaxImageSize + 1, "image too large"},
		{"oversize jpeg", "banner.JPEG", 20 << 20, "image too large"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			media, err := s.UploadImage(context.Background(), tc.filename, tc.size, strings.NewReader("data"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Nil(t, media)
		})
	}
}

func TestUploadImageAcceptsImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/media", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "banner.PNG", header.Filename)

		w.Write([]byte(`{"result":"success","data":{"url":"https://cdn.example.com/banner.png"}}`))
	}))
	defer server.Close()

	s := newTestService(server.URL)

	media, err := s.UploadImage(context.Background(), "banner.PNG", 4, strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/banner.png", media.Url)
	assert.Equal(t, "png", media.Type)
	assert.Equal(t, int64(4), media.Size)
}
