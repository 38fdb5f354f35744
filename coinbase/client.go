// Package coinbase retrieves historical and spot market data from the
// Coinbase Exchange public API, and turns candle history into price lookups
// for a lattice portfolio.
package coinbase

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// DefaultBaseURL is the public Coinbase Exchange API endpoint.
const DefaultBaseURL = "https://api.exchange.coinbase.com"

// throttleDelay is how long to wait before retrying a rate-limited request.
var throttleDelay = time.Second

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskCache keys include the current day, so the local tmp expires daily.
	key := fmt.Sprintf("%s %s %s", time.Now().UTC().Format("2006-01-02"), req.Method, req.URL.String())
	key = fmt.Sprintf("coinbase-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0644)
}

// Client talks to the Coinbase Exchange API. The zero value is not usable;
// call NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client whose candle responses are cached on disk with
// daily expiry, so repeated backtests over the same range do not re-hit the
// API.
func NewClient() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Transport: &diskCache{http.DefaultTransport}, Timeout: 30 * time.Second},
	}
}

// getJSON performs a GET against the API and unmarshals the JSON response.
// Rate-limited requests (HTTP 429) wait a beat and retry.
func (c *Client) getJSON(ctx context.Context, path string, data interface{}) error {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			select {
			case <-time.After(throttleDelay):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, resp.Body); err != nil {
			return err
		}
		return json.Unmarshal(buf.Bytes(), data)
	}
}
