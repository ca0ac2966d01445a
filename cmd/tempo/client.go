package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

const defaultServerURL = "http://127.0.0.1:8377"

type apiClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// newClient builds a client from the --server flag, the environment, and the
// stored login token.
func newClient() *apiClient {
	base := serverURL
	if base == "" {
		base = os.Getenv("TEMPO_SERVER")
	}
	if base == "" {
		base = defaultServerURL
	}
	return &apiClient{
		baseURL: internalstrings.TrimTrailingSlash(base),
		token:   loadToken(),
		client:  http.DefaultClient,
	}
}

// requireAuth returns an error when no login token is available.
func (c *apiClient) requireAuth() error {
	if c.token == "" {
		return fmt.Errorf("not logged in: run tempo login <email>")
	}
	return nil
}

func (c *apiClient) getJSON(ctx context.Context, path string, dest any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, dest)
}

func (c *apiClient) postJSON(ctx context.Context, path string, payload, dest any) error {
	return c.doJSON(ctx, http.MethodPost, path, payload, dest)
}

func (c *apiClient) doJSON(ctx context.Context, method, path string, payload, dest any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readErrorResponse(resp)
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return fmt.Errorf("tempo error: %s", message)
		}
	}
	return fmt.Errorf("tempo error: %s", resp.Status)
}

// tokenPath is where login stores the bearer token.
func tokenPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tempo", "token"), nil
}

func loadToken() string {
	if token := os.Getenv("TEMPO_TOKEN"); token != "" {
		return token
	}
	path, err := tokenPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return internalstrings.TrimSpace(string(data))
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
