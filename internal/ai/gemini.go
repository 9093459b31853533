package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"oglasnik/importer/internal/config"
)

// Gemini is the Provider backed by Google Gemini.
type Gemini struct {
	cfg config.GeminiConfig
}

// NewGemini returns nil when no API key is configured; a nil provider is
// the normal "AI disabled" condition, not an error.
func NewGemini(cfg config.GeminiConfig) *Gemini {
	if cfg.APIKey == "" {
		log.Info("Gemini API key not configured, AI stages disabled")
		return nil
	}
	return &Gemini{cfg: cfg}
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.cfg.Timeout)*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.cfg.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(float32(g.cfg.Temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", fmt.Errorf("unexpected response format from gemini")
}

func (g *Gemini) ProposeListing(ctx context.Context, signals Signals) (*Draft, error) {
	reply, err := g.generate(ctx, buildProposePrompt(signals))
	if err != nil {
		return nil, err
	}

	draft, err := parseDraft(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gemini draft: %w", err)
	}
	return draft, nil
}

func (g *Gemini) PickCategory(ctx context.Context, title string, categories []string) (string, error) {
	reply, err := g.generate(ctx, buildCategoryPrompt(title, categories))
	if err != nil {
		return "", err
	}
	return parseCategory(reply, categories)
}

func (g *Gemini) PickItemIndex(ctx context.Context, title, subcategory string, items []string) (int, error) {
	reply, err := g.generate(ctx, buildItemPrompt(title, subcategory, items))
	if err != nil {
		return 0, err
	}
	return parseIndex(reply)
}
