package apis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const configFileName = "config.yaml"

// GistClient fetches the oracle config from a GitHub gist
type GistClient struct {
	baseURL string
	token   string
	client  *http.Client
}

type gistFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type gistResponse struct {
	Files map[string]gistFile `json:"files"`
}

// NewGistClient creates a client for the GitHub API at baseURL. The token may be empty.
func NewGistClient(baseURL, token string) *GistClient {
	return &GistClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchConfig returns the content of config.yaml in the gist
func (g *GistClient) FetchConfig(ctx context.Context, gistID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/gists/%s", g.baseURL, gistID), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gist: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gist %s returned %d", ErrUnexpectedStatus, gistID, resp.StatusCode)
	}

	var gist gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gist.Files) == 0 {
		return "", ErrNoGistFiles
	}

	for _, file := range gist.Files {
		if file.Filename == configFileName && file.Content != "" {
			return file.Content, nil
		}
	}

	return "", ErrConfigFileNotFound
}
