package sync

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `{
  "CPU Zlib": [
    {"MachineId": "a", "CpuName": "Xeon", "BenchmarkResult": 12.5, "ElapsedTime": 7, "UsedThreads": 8, "BenchmarkVersion": 1},
    {"MachineId": "b", "CpuName": "Broken", "BenchmarkResult": -1}
  ]
}`

func TestFetchURL(t *testing.T) {
	c := New("https://api.example.org/", "1.2.3", 0)
	u, err := c.FetchURL(FetchOptions{MaxResults: 10, MachineType: "Desktop", CPU: "Ryzen 7 5800X", UserNote: "oc"})
	require.NoError(t, err)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "/benchmark.json", parsed.Path)
	q := parsed.Query()
	assert.Equal(t, "1.2.3", q.Get("ver"))
	assert.Equal(t, "1", q.Get("rel"))
	assert.Equal(t, "10", q.Get("L"))
	assert.Equal(t, "Desktop", q.Get("MT"))
	assert.Equal(t, "Ryzen 7 5800X", q.Get("CPU"))
	assert.Equal(t, "oc", q.Get("BUN"))

	u, err = c.FetchURL(FetchOptions{})
	require.NoError(t, err)
	assert.NotContains(t, u, "BUN")

	_, err = New("not a url", "1", 0).FetchURL(FetchOptions{})
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/benchmark.json", r.URL.Path)
		assert.Equal(t, "hwbench/test", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, sampleDataset)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "benchmark.json")
	ds, err := New(srv.URL, "test", 0).Fetch(context.Background(), FetchOptions{MaxResults: 5}, dest)
	require.NoError(t, err)

	require.Len(t, ds["CPU Zlib"], 1)
	assert.Equal(t, 12.5, ds["CPU Zlib"][0].Result)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, sampleDataset, string(written))
}

func TestFetchRejectsInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>maintenance</html>")
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "benchmark.json")
	require.NoError(t, os.WriteFile(dest, []byte(sampleDataset), 0o644))

	_, err := New(srv.URL, "test", 0).Fetch(context.Background(), FetchOptions{}, dest)
	require.Error(t, err)

	kept, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, sampleDataset, string(kept), "existing dataset must survive a bad download")
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "test", 0).Fetch(context.Background(), FetchOptions{}, filepath.Join(t.TempDir(), "x.json"))
	assert.ErrorIs(t, err, ErrStatus)
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleDataset)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, "test", 0).Fetch(ctx, FetchOptions{}, filepath.Join(t.TempDir(), "x.json"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSend(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.Equal(t, "2", r.URL.Query().Get("ver"))
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	payload := []byte(`{"CPU Zlib":[]}`)
	require.NoError(t, New(srv.URL, "2", 0).Send(context.Background(), payload))
	assert.Equal(t, payload, got)
}

func TestSendStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(srv.URL, "2", 0).Send(context.Background(), []byte("{}"))
	assert.ErrorIs(t, err, ErrStatus)
}
