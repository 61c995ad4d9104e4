// Package sync exchanges benchmark datasets with the results server: it
// downloads the shared dataset and uploads this machine's results.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jamesainslie/hwbench/pkg/hwbench/dataset"
	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
)

var logger = logging.Get("sync")

const (
	// Release is the protocol release number sent with every request.
	Release = 1

	// MaxDatasetSize caps a downloaded dataset.
	MaxDatasetSize = 64 << 20
)

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

// Client talks to one results server.
type Client struct {
	Server  string
	Version string
	HTTP    *http.Client
}

// New creates a Client for server. A zero timeout means no timeout.
func New(server, version string, timeout time.Duration) *Client {
	return &Client{
		Server:  strings.TrimRight(server, "/"),
		Version: version,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// FetchOptions describe the requesting machine so the server can return a
// relevant slice of its results.
type FetchOptions struct {
	MaxResults  int
	MachineType string
	CPU         string
	UserNote    string
}

func (c *Client) endpoint(q url.Values) (string, error) {
	u, err := url.Parse(c.Server)
	if err != nil {
		return "", fmt.Errorf("invalid server %q: %w", c.Server, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server %q: missing scheme or host", c.Server)
	}
	u = u.JoinPath(dataset.FileName)
	q.Set("ver", c.Version)
	q.Set("rel", strconv.Itoa(Release))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchURL returns the dataset download URL for opts.
func (c *Client) FetchURL(opts FetchOptions) (string, error) {
	q := url.Values{}
	q.Set("L", strconv.Itoa(opts.MaxResults))
	q.Set("MT", opts.MachineType)
	q.Set("CPU", opts.CPU)
	if opts.UserNote != "" {
		q.Set("BUN", opts.UserNote)
	}
	return c.endpoint(q)
}

// Fetch downloads the dataset and writes it to dest atomically. The body
// must decode as a dataset; otherwise dest is left untouched.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions, dest string) (dataset.Dataset, error) {
	u, err := c.FetchURL(opts)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset from %s: %w", c.Server, err)
	}
	if err := writeAtomic(dest, body); err != nil {
		return nil, err
	}

	logger.Info("dataset fetched", "server", c.Server, "benchmarks", len(ds), "records", ds.Len(), "path", dest)
	return ds, nil
}

// Send uploads payload, normally the output of dataset.Export.
func (c *Client) Send(ctx context.Context, payload []byte) error {
	u, err := c.endpoint(url.Values{})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	if _, err := c.do(req); err != nil {
		return err
	}
	logger.Info("results sent", "server", c.Server, "bytes", len(payload))
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", "hwbench/"+c.Version)

	logger.Debug("request", "method", req.Method, "url", req.URL.String())
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDatasetSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	if len(body) > MaxDatasetSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxDatasetSize)
	}
	return body, nil
}

// writeAtomic writes data to a temp file beside path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".benchmark-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing dataset: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming dataset: %w", err)
	}
	return nil
}
