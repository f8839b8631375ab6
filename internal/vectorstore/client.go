package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultMaxBatch = 1000

// Config locates the vector index and carries its credentials.
type Config struct {
	RestURL string
	Token   string
	// ReadonlyToken, when set, is used for queries instead of the write
	// token.
	ReadonlyToken string
	// MaxBatch caps how many records a single upsert request carries.
	// Zero means the store default of 1000.
	MaxBatch int
	Timeout  time.Duration
}

// Client talks to the vector index over REST. It is stateless and safe for
// concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// New validates the configuration and builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.RestURL == "" {
		return nil, fmt.Errorf("vector store rest url is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("vector store token is required")
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = defaultMaxBatch
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	cfg.RestURL = strings.TrimRight(cfg.RestURL, "/")

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Upsert writes records into a namespace. Records are validated client-side
// and split into requests of at most MaxBatch records; the store treats an
// existing id as an overwrite.
func (c *Client) Upsert(ctx context.Context, namespace string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("record %d: id is required", i)
		}
		if len(r.Vector) == 0 && r.SparseVector == nil {
			return fmt.Errorf("record %s: dense or sparse vector is required", r.ID)
		}
	}

	for start := 0; start < len(records); start += c.cfg.MaxBatch {
		end := start + c.cfg.MaxBatch
		if end > len(records) {
			end = len(records)
		}
		status, body, err := c.do(ctx, http.MethodPost, "/upsert/"+namespace, c.cfg.Token, records[start:end])
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return c.storeError("upsert", status, body)
		}
	}
	return nil
}

// Query runs a nearest-neighbor search. An unknown namespace yields an
// empty result, not an error.
func (c *Client) Query(ctx context.Context, namespace string, q Query) ([]ScoredRecord, error) {
	token := c.cfg.Token
	if c.cfg.ReadonlyToken != "" {
		token = c.cfg.ReadonlyToken
	}

	status, body, err := c.do(ctx, http.MethodPost, "/query/"+namespace, token, q)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, c.storeError("query", status, body)
	}

	var out struct {
		Result []ScoredRecord `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return out.Result, nil
}

// Delete removes records by id. Deleting ids that do not exist succeeds.
func (c *Client) Delete(ctx context.Context, namespace string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	payload := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	status, body, err := c.do(ctx, http.MethodDelete, "/delete/"+namespace, c.cfg.Token, payload)
	if err != nil {
		return err
	}
	if status == http.StatusOK || status == http.StatusNotFound {
		return nil
	}
	return c.storeError("delete", status, body)
}

// DeleteNamespace drops a whole namespace. A missing namespace succeeds.
func (c *Client) DeleteNamespace(ctx context.Context, namespace string) error {
	status, body, err := c.do(ctx, http.MethodDelete, "/namespaces/"+namespace, c.cfg.Token, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK || status == http.StatusNotFound {
		return nil
	}
	return c.storeError("delete namespace", status, body)
}

// Info reports index-wide stats.
func (c *Client) Info(ctx context.Context) (Info, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/info", c.cfg.Token, nil)
	if err != nil {
		return Info{}, err
	}
	if status != http.StatusOK {
		return Info{}, c.storeError("info", status, body)
	}

	var out struct {
		Result Info `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return Info{}, fmt.Errorf("decode info response: %w", err)
	}
	return out.Result, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.RestURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *Client) storeError(op string, status int, body []byte) error {
	return &StoreError{
		Op:         op,
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}
}
