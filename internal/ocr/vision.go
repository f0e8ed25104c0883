package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultVisionBaseURL = "https://vision.googleapis.com"

// Vision implements Engine against the Google Vision images:annotate
// endpoint with TEXT_DETECTION. This is the paid, more accurate provider.
type Vision struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewVision creates the cloud-vision engine. baseURL may be empty for the
// production endpoint; tests point it at a local fake.
func NewVision(apiKey, baseURL string) (*Vision, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision api key is required")
	}
	if baseURL == "" {
		baseURL = defaultVisionBaseURL
	}
	return &Vision{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// RecognizeText sends the image for annotation and returns the full-text
// description (the first annotation covers the whole image).
func (v *Vision) RecognizeText(ctx context.Context, image []byte) (string, error) {
	prepared, err := prepareImage(image)
	if err != nil {
		return "", err
	}

	reqBody := visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(prepared)},
			Features: []visionFeature{{Type: "TEXT_DETECTION"}},
		}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/images:annotate?key=%s", v.baseURL, v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling vision API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, string(body))
	}

	var annotated visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&annotated); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(annotated.Responses) == 0 {
		return "", nil
	}
	first := annotated.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("vision API: %s", first.Error.Message)
	}
	if len(first.TextAnnotations) == 0 {
		return "", nil
	}
	return first.TextAnnotations[0].Description, nil
}

// Close is a no-op for the HTTP client.
func (v *Vision) Close() error {
	return nil
}
