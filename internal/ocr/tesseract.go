package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine with a local Tesseract installation. This is
// the free, offline provider; accuracy on crumpled thermal receipts is
// lower than the cloud providers, which is why uploads are preprocessed
// first.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseract creates the local engine. Languages follow tesseract
// notation ("ind+eng" by default, matching Indonesian receipts with
// English loanwords); pass empty to keep the engine default.
func NewTesseract(languages string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if languages != "" {
		if err := client.SetLanguage(strings.Split(languages, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("setting tesseract languages: %w", err)
		}
	}
	return &Tesseract{client: client}, nil
}

// RecognizeText performs OCR on the image. The gosseract client holds one
// native Tesseract handle, so recognition is serialized.
func (t *Tesseract) RecognizeText(ctx context.Context, image []byte) (string, error) {
	prepared, err := prepareImage(image)
	if err != nil {
		return "", err
	}
	prepared, err = enhanceForRecognition(prepared)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the native Tesseract handle.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
