package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/igolaizola/lyrikai/pkg/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	models      []string
	completion  []string
	image       map[string]string
	status      int
	mu          sync.Mutex
	lastRequest map[string]any
}

func (f *fakeProvider) last(key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRequest[key]
}

func (f *fakeProvider) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.status != 0 {
			w.WriteHeader(f.status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "boom", "type": "server_error"},
			})
			return
		}
		if r.Method == http.MethodPost {
			req := map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.lastRequest = req
			f.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/models":
			var data []map[string]any
			for _, m := range f.models {
				data = append(data, map[string]any{"id": m, "object": "model"})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
		case "/v1/completions":
			var choices []map[string]any
			for i, c := range f.completion {
				choices = append(choices, map[string]any{"index": i, "text": c})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": choices})
		case "/v1/images/generations":
			var data []map[string]string
			if f.image != nil {
				data = append(data, f.image)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"created": 1, "data": data})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, f *fakeProvider) *Client {
	t.Helper()
	srv := f.server(t)
	c, err := New(&Config{Token: "test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return c
}

func TestModels(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, &fakeProvider{models: []string{"gpt-3.5-turbo-instruct", "dall-e-2"}})
	got, err := c.Models(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-3.5-turbo-instruct", "dall-e-2"}, got)

	c = newTestClient(t, &fakeProvider{})
	_, err = c.Models(ctx)
	assert.ErrorIs(t, err, errkind.ErrUnavailable)

	c = newTestClient(t, &fakeProvider{status: http.StatusUnauthorized})
	_, err = c.Models(ctx)
	assert.ErrorIs(t, err, errkind.ErrUnavailable)
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	f := &fakeProvider{completion: []string{"\nLove, longing, hope"}}
	c := newTestClient(t, f)

	got, err := c.Summarize(ctx, "Hello, is it me you're looking for", "sm")
	require.NoError(t, err)
	assert.Equal(t, "\nLove, longing, hope", got)
	assert.Equal(t, "Summarize the themes in this song lyric in five words or less:\n\nHello, is it me you're looking for", f.last("prompt"))
	assert.EqualValues(t, 64, f.last("max_tokens"))

	_, err = c.Summarize(ctx, "Hello", "lg")
	require.NoError(t, err)
	assert.Equal(t, "Summarize the themes in this song lyric:\n\nHello", f.last("prompt"))

	_, err = c.Summarize(ctx, "These are the lyrics", "big")
	assert.ErrorIs(t, err, errkind.ErrInvalidInput)
}

func TestCompletionShapes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{"no choices", &fakeProvider{}},
		{"empty text", &fakeProvider{completion: []string{"  \n"}}},
		{"provider error", &fakeProvider{status: http.StatusInternalServerError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.provider)
			_, err := c.DescribeScene(ctx, "Love, faith, redemption")
			assert.ErrorIs(t, err, errkind.ErrUpstream)
		})
	}
}

func TestDescribeScene(t *testing.T) {
	ctx := context.Background()
	f := &fakeProvider{completion: []string{"A lighthouse at dusk"}}
	c := newTestClient(t, f)

	got, err := c.DescribeScene(ctx, "Love, faith, redemption")
	require.NoError(t, err)
	assert.Equal(t, "A lighthouse at dusk", got)
	assert.Equal(t, "Describe in detail, a visual scene based on the themes of Love, faith, redemption", f.last("prompt"))

	_, err = c.DescribeScene(ctx, "")
	assert.ErrorIs(t, err, errkind.ErrInvalidInput)
}

func TestGenerateImageValidation(t *testing.T) {
	c := newTestClient(t, &fakeProvider{})
	tests := []struct {
		name                 string
		prompt, size, format string
	}{
		{"empty prompt", "", "sm", "url"},
		{"invalid size", "A cat in a hat", "huge", "url"},
		{"invalid size big", "A cat in a hat", "big", "url"},
		{"invalid format", "A cat in a hat", "sm", "jpeg"},
		{"invalid format web", "A cat in a hat", "sm", "web"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GenerateImage(context.Background(), tt.prompt, tt.size, tt.format)
			assert.ErrorIs(t, err, errkind.ErrInvalidInput)
		})
	}
}

func TestGenerateImage(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		size, format   string
		wantResolution string
	}{
		{"sm", "url", "256x256"},
		{"md", "b64_json", "512x512"},
		{"lg", "url", "1024x1024"},
	}
	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			f := &fakeProvider{image: map[string]string{"url": "https://example.com/art.png"}}
			c := newTestClient(t, f)
			img, err := c.GenerateImage(ctx, "A cat in a hat", tt.size, tt.format)
			require.NoError(t, err)
			assert.Equal(t, "https://example.com/art.png", img.URL)
			assert.Equal(t, tt.wantResolution, f.last("size"))
			assert.Equal(t, tt.format, f.last("response_format"))
			assert.EqualValues(t, 1, f.last("n"))
		})
	}

	c := newTestClient(t, &fakeProvider{})
	_, err := c.GenerateImage(ctx, "A cat in a hat", "sm", "url")
	assert.ErrorIs(t, err, errkind.ErrUpstream)
}
