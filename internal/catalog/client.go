package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Genre is a single entry from a TMDB genre taxonomy.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchResult is a single person or keyword search match.
type SearchResult struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DiscoverResponse models the paginated TMDB discovery response.
type DiscoverResponse struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// StatusError carries the remote status code and message for a failed catalog
// call so the HTTP surface can proxy them.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned %d: %s", e.Code, e.Message)
}

// API defines the catalog operations the pipeline consumes.
type API interface {
	Discover(ctx context.Context, kind MediaKind, params url.Values) (*DiscoverResponse, error)
	SearchPerson(ctx context.Context, name, language string) ([]SearchResult, error)
	SearchKeyword(ctx context.Context, name string) ([]SearchResult, error)
	GenreList(ctx context.Context, kind MediaKind) ([]Genre, error)
	Details(ctx context.Context, kind MediaKind, id int64) (Item, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a catalog client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("catalog api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Discover executes a filtered listing request against the discovery endpoint
// for the given media kind. Every returned item is stamped with the kind.
func (c *Client) Discover(ctx context.Context, kind MediaKind, params url.Values) (*DiscoverResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("discover: unsupported media kind %q", kind)
	}
	merged := url.Values{}
	for key, values := range params {
		for _, value := range values {
			merged.Add(key, value)
		}
	}
	var payload DiscoverResponse
	if err := c.get(ctx, "/discover/"+kind.String(), merged, &payload); err != nil {
		return nil, fmt.Errorf("discover %s: %w", kind, err)
	}
	for _, item := range payload.Results {
		item.StampMediaType(kind)
	}
	return &payload, nil
}

// SearchPerson searches the catalog's person index for the supplied name.
// languageHint overrides the client default when non-empty.
func (c *Client) SearchPerson(ctx context.Context, name, languageHint string) ([]SearchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("search person: name must not be empty")
	}
	params := url.Values{}
	params.Set("query", name)
	if languageHint = strings.TrimSpace(languageHint); languageHint != "" {
		params.Set("language", languageHint)
	}
	var payload struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/search/person", params, &payload); err != nil {
		return nil, fmt.Errorf("search person: %w", err)
	}
	return payload.Results, nil
}

// SearchKeyword searches the catalog's keyword index for the supplied name.
func (c *Client) SearchKeyword(ctx context.Context, name string) ([]SearchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("search keyword: name must not be empty")
	}
	params := url.Values{}
	params.Set("query", name)
	var payload struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/search/keyword", params, &payload); err != nil {
		return nil, fmt.Errorf("search keyword: %w", err)
	}
	return payload.Results, nil
}

// GenreList fetches the genre taxonomy for the given media kind.
func (c *Client) GenreList(ctx context.Context, kind MediaKind) ([]Genre, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("genre list: unsupported media kind %q", kind)
	}
	var payload struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/"+kind.String()+"/list", url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("genre list %s: %w", kind, err)
	}
	return payload.Genres, nil
}

// Details fetches a single title with credits attached. A non-2xx catalog
// response is returned as a StatusError carrying the remote code and message.
func (c *Client) Details(ctx context.Context, kind MediaKind, id int64) (Item, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("details: unsupported media kind %q", kind)
	}
	if id <= 0 {
		return nil, errors.New("details: id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")
	var payload Item
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", kind, id), params, &payload); err != nil {
		return nil, fmt.Errorf("details %s/%d: %w", kind, id, err)
	}
	payload.StampMediaType(kind)
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse catalog url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response (latency=%v): %w", latency, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{
			Code:    resp.StatusCode,
			Message: remoteStatusMessage(body, resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

// remoteStatusMessage extracts TMDB's status_message from an error body,
// falling back to the standard text for the code.
func remoteStatusMessage(body []byte, code int) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if message := strings.TrimSpace(payload.StatusMessage); message != "" {
			return message
		}
	}
	return http.StatusText(code)
}
