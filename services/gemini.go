package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

const extractionPrompt = `Você recebe a captura de tela de um aplicativo de atividade física (Strava, Garmin, relógio, etc.) registrada na Trilha do Cristo.
Extraia os dados da atividade e retorne APENAS um JSON válido com a estrutura:

{
  "name": "Nome da trilha, se visível",
  "date": "AAAA-MM-DD",
  "duration": "MM:SS",
  "distance": "5.2",
  "elevation": "230"
}

Regras:
- "duration" em minutos e segundos totais (1h05min30s vira "65:30").
- "distance" em quilômetros, com ponto decimal.
- "elevation" em metros de ganho acumulado; use null se não aparecer.
- Se a data não aparecer, use null.
- Não invente valores que não estejam na imagem.`

// HikeExtractor reads hike fields out of an activity screenshot.
type HikeExtractor interface {
	ExtractHike(ctx context.Context, image []byte, mimeType string) (CreateHikeRequest, error)
}

type GeminiExtractor struct {
	client *genai.Client
	model  string
}

func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

func (g *GeminiExtractor) ExtractHike(ctx context.Context, image []byte, mimeType string) (CreateHikeRequest, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(extractionPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(0.1)),
	})
	if err != nil {
		return CreateHikeRequest{}, fmt.Errorf("gemini generate content: %w", err)
	}
	return ParseExtraction(resp.Text())
}

// ParseExtraction decodes the model's JSON answer, tolerating markdown
// fences and numbers where strings are expected.
func ParseExtraction(text string) (CreateHikeRequest, error) {
	var raw struct {
		Name      looseString `json:"name"`
		Date      looseString `json:"date"`
		Duration  looseString `json:"duration"`
		Distance  looseString `json:"distance"`
		Elevation looseString `json:"elevation"`
	}
	if err := json.Unmarshal([]byte(cleanModelOutput(text)), &raw); err != nil {
		return CreateHikeRequest{}, fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}

	req := CreateHikeRequest{
		Name:     string(raw.Name),
		Date:     string(raw.Date),
		Duration: string(raw.Duration),
		Distance: string(raw.Distance),
	}
	if raw.Elevation != "" {
		e := string(raw.Elevation)
		req.Elevation = &e
	}
	return req, nil
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(strings.TrimSpace(str))
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return errors.New("expected string or number")
	}
	*s = looseString(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}
