package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// prepareImage normalizes receipt uploads to PNG: PDFs are rasterized
// (first page only, receipts are single-page), HEIC phone photos get the
// dedicated decoder, everything else goes through the standard image
// package.
func prepareImage(data []byte) ([]byte, error) {
	if isPDF(data) {
		return pdfToPNG(data)
	}

	var img image.Image
	var err error
	if isHEIC(data) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding heic image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") {
				return nil, fmt.Errorf("unsupported image format (expected JPEG, PNG, GIF, HEIC or PDF): %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	return encodePNG(img)
}

// enhanceForRecognition preprocesses a normalized PNG for the local engine:
// grayscale, higher contrast and a sharpen pass make thermal-printer text
// considerably more readable to Tesseract.
func enhanceForRecognition(pngData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decoding prepared image: %w", err)
	}

	enhanced := imaging.Grayscale(img)
	enhanced = imaging.AdjustContrast(enhanced, 30)
	enhanced = imaging.Sharpen(enhanced, 1.5)

	return encodePNG(enhanced)
}

func pdfToPNG(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf page: %w", err)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

// isHEIC sniffs the ftyp box brands used by HEIC/HEIF containers; the
// standard image package cannot decode them.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}
