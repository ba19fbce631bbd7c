package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ferntree/sprout/internal/chat"
	"github.com/ferntree/sprout/internal/history"
)

const (
	// DefaultModel is used when the config leaves the model empty.
	DefaultModel = "gemini-2.5-flash"

	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
)

// gemini talks to the Gemini REST API. Structured calls ask for JSON output
// and decode the reply into the matching history payload.
type gemini struct {
	endpoint string
	key      string
	model    string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewGemini returns an Assistant backed by the Gemini API. Empty endpoint
// and model fall back to the public API and DefaultModel. The free tier
// allows 10 requests per minute, so calls queue behind a limiter instead of
// burning the quota on a burst.
func NewGemini(endpoint, key, model string) Assistant {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	return &gemini{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		client:   &http.Client{Timeout: 25 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(10.0/60.0), 2),
	}
}

// Wire shapes for models/{model}:generateContent.

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	Config            *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *gemini) generate(ctx context.Context, system string, contents []content, jsonMode bool) (string, error) {
	if g.key == "" {
		return "", errors.New("no API key configured (set GEMINI_API_KEY or run sprout init)")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := generateRequest{Contents: contents}
	if system != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	if jsonMode {
		reqBody.Config = &generationConfig{ResponseMIMEType: "application/json"}
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := g.endpoint + "/models/" + g.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.key)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", g.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%s returned %s: %s", g.model, resp.Status, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", errors.New("empty response from model")
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

const chatSystem = "You are Sprout, a friendly plant-care assistant. " +
	"Answer practically and concisely, prefer actionable steps over theory, " +
	"and stay on gardening topics."

func (g *gemini) Chat(ctx context.Context, turns []Turn, message, image, mime string) (string, error) {
	contents := make([]content, 0, len(turns)+1)
	for _, t := range turns {
		role := "user"
		if t.Role == chat.RoleModel {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: t.Text}}})
	}
	if image != "" {
		contents = append(contents, photoContent(message, image, mime))
	} else {
		contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})
	}
	return g.generate(ctx, chatSystem, contents, false)
}

const diagnosePrompt = `Identify the plant on this photo and diagnose its condition.
Reply ONLY with valid JSON in exactly this shape:
{"plantName":"","diseaseName":"","severity":"","symptoms":[""],"organicCure":[""],"chemicalCure":[""],"prevention":[""],"purchaseLinks":[""]}
Severity is one of Low, Medium or High. If the plant looks healthy, use
"Healthy" as the diseaseName and leave the cure lists empty. purchaseLinks
lists product names to search for, not URLs.`

func (g *gemini) DiagnosePlant(ctx context.Context, image, mime string) (Diagnosis, error) {
	raw, err := g.generate(ctx, "", []content{photoContent(diagnosePrompt, image, mime)}, true)
	if err != nil {
		return Diagnosis{}, err
	}
	var payload struct {
		PlantName string `json:"plantName"`
		history.Analysis
	}
	if err := decodeReply(raw, &payload); err != nil {
		return Diagnosis{}, err
	}
	payload.Analysis.Image = image
	return Diagnosis{PlantName: payload.PlantName, Analysis: payload.Analysis}, nil
}

const soilPrompt = `Analyze the soil on this photo.
Reply ONLY with valid JSON in exactly this shape:
{"ph":"","nitrogen":"","phosphorus":"","potassium":"","suitableCrops":[""],"improvements":[""]}
Give ph as a number in a string, the nutrient levels as Low, Medium or
High, and practical improvement tips.`

func (g *gemini) AnalyzeSoil(ctx context.Context, image, mime string) (history.SoilReport, error) {
	raw, err := g.generate(ctx, "", []content{photoContent(soilPrompt, image, mime)}, true)
	if err != nil {
		return history.SoilReport{}, err
	}
	var report history.SoilReport
	if err := decodeReply(raw, &report); err != nil {
		return history.SoilReport{}, err
	}
	report.Image = image
	return report, nil
}

const seedPrompt = `Identify the seeds on this photo.
Reply ONLY with valid JSON in exactly this shape:
{"seedName":"","parentPlant":"","description":"","regions":[""],"bestSoil":"","growthTips":[""]}
parentPlant is the plant these seeds grow into; regions lists where it is
commonly cultivated.`

func (g *gemini) IdentifySeed(ctx context.Context, image, mime string) (history.SeedReport, error) {
	raw, err := g.generate(ctx, "", []content{photoContent(seedPrompt, image, mime)}, true)
	if err != nil {
		return history.SeedReport{}, err
	}
	var report history.SeedReport
	if err := decodeReply(raw, &report); err != nil {
		return history.SeedReport{}, err
	}
	report.Image = image
	return report, nil
}

func (g *gemini) CareGuide(ctx context.Context, plantName string) (string, error) {
	prompt := fmt.Sprintf(`Write a practical care guide for %q in Markdown.
Start with a single "# %s care guide" heading, then short sections for
light, watering, soil, feeding and common problems. Keep it under 40 lines.`,
		plantName, plantName)
	return g.generate(ctx, "", []content{{Role: "user", Parts: []part{{Text: prompt}}}}, false)
}

func (g *gemini) Translate(ctx context.Context, text, language string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text into %s. Reply with only the translation, keeping any Markdown formatting.\n\n%s", language, text)
	return g.generate(ctx, "", []content{{Role: "user", Parts: []part{{Text: prompt}}}}, false)
}

// photoContent builds the single user turn of an image analysis call.
func photoContent(prompt, image, mime string) content {
	return content{Role: "user", Parts: []part{
		{Text: prompt},
		{InlineData: &inlineData{MimeType: mime, Data: image}},
	}}
}

// decodeReply parses a structured reply, tolerating the code fences some
// models wrap around JSON output.
func decodeReply(raw string, v any) error {
	cleaned := stripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parsing assistant reply: %w (reply was: %.120s)", err, cleaned)
	}
	return nil
}

// stripFences removes a surrounding Markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
