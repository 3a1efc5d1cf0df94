package e2e

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// Client drives the registry HTTP API in scenario tests.
type Client struct {
	baseURL string
	http    *http.Client
}

// SetupE2ETest returns a client against the registry named by
// REGISTRY_ADDR, or skips the test when the variable is unset.
func SetupE2ETest(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("REGISTRY_ADDR")
	if addr == "" {
		t.Skip("REGISTRY_ADDR not set; skipping e2e test")
	}

	return &Client{
		baseURL: "http://" + addr,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Do performs a request as the given caller and returns the status
// code and raw response body.
func (c *Client) Do(t *testing.T, method, path, caller string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if caller != "" {
		req.Header.Set("X-Registry-Caller", caller)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return resp.StatusCode, data
}

// MustDo performs a request and fails the test unless the status matches.
func (c *Client) MustDo(t *testing.T, method, path, caller string, body interface{}, wantStatus int) []byte {
	t.Helper()

	status, data := c.Do(t, method, path, caller, body)
	if status != wantStatus {
		t.Fatalf("%s %s status = %d, want %d (body: %s)", method, path, status, wantStatus, data)
	}
	return data
}

// RegisterProvider registers a uniquely named provider and schedules
// its removal.
func (c *Client) RegisterProvider(t *testing.T, name string) {
	t.Helper()

	c.MustDo(t, http.MethodPost, "/providers", name, map[string]string{
		"name":        name,
		"description": "e2e test provider",
	}, http.StatusCreated)

	t.Cleanup(func() {
		c.Do(t, http.MethodDelete, "/providers/"+name, name, nil)
	})
}

// UniqueName returns a name unique to this test run.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// RandomHash returns a random hex-encoded 256-bit digest.
func RandomHash(t *testing.T) string {
	t.Helper()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("failed to generate hash: %v", err)
	}
	return hex.EncodeToString(raw)
}
