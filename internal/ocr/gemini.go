package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// transcribePrompt asks the model for a verbatim transcription so the
// downstream heuristics see the same kind of raw text the other engines
// produce. Structuring is not the engine's job.
const transcribePrompt = `Transcribe ALL text visible in this receipt image, exactly as printed, one receipt line per output line, from top to bottom. Preserve numbers, punctuation and spacing within lines. Do not summarize, translate, interpret or add any commentary. Output only the transcribed text.`

// Gemini implements Engine using a Gemini vision model as the recognizer.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates the gemini engine.
func NewGemini(apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// RecognizeText sends the prepared image and transcription prompt to the
// model and concatenates the text parts of the first candidate.
func (g *Gemini) RecognizeText(ctx context.Context, image []byte) (string, error) {
	prepared, err := prepareImage(image)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData("png", prepared),
		genai.Text(transcribePrompt),
	)
	if err != nil {
		return "", fmt.Errorf("generating transcription: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// Close closes the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
