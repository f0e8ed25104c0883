package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Supabase stores receipt files in a managed storage bucket and returns
// public URLs for them.
type Supabase struct {
	baseURL    string
	serviceKey string
	bucket     string
	client     *http.Client
}

// NewSupabase creates a bucket-backed store. The service key must allow
// object writes; bucket defaults to "receipts".
func NewSupabase(baseURL, serviceKey, bucket string) (*Supabase, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("storage url and service key are required")
	}
	if bucket == "" {
		bucket = "receipts"
	}
	return &Supabase{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Save uploads the object and returns its public URL.
func (s *Supabase) Save(name string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, name)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage error (status %d): %s", resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, name), nil
}

// Get downloads an object by its bucket path.
func (s *Supabase) Get(path string) ([]byte, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage error (status %d)", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Delete removes an object.
func (s *Supabase) Delete(path string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("storage error (status %d)", resp.StatusCode)
	}
	return nil
}
