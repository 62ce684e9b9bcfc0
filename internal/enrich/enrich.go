// Package enrich asks an external text-generation service for tags and a
// one-sentence description per note. Every failure degrades per-note: the
// pipeline keeps going and the note falls back to extracted metadata.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mdombrov-33/go-promptguard/detector"

	"github.com/Dhruvkoshta/Personal-Notes-App/internal/logger"
	"github.com/Dhruvkoshta/Personal-Notes-App/internal/markdown"
)

const (
	// MaxSubmittedChars bounds how much sanitized content one request carries.
	MaxSubmittedChars = 4000
	// MaxTags caps the normalized tag list from a service reply.
	MaxTags = 8
)

// Metadata is a successful enrichment result.
type Metadata struct {
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// Client is a provider-agnostic interface for JSON-constrained generation.
type Client interface {
	GenerateJSON(prompt string) (string, error)
	Provider() string
}

// Service wraps a Client with prompt construction, reply parsing, and
// normalization. Construct one per run and inject it into the indexer so
// tests can substitute a stub Client.
type Service struct {
	client Client
}

// NewService creates an enrichment service backed by the given client.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// promptGuard screens note content for injection attempts before it is sent
// to the service. Pattern + statistical detectors only, no LLM judge, so the
// check stays sub-millisecond per note.
var promptGuard = detector.New(
	detector.WithThreshold(0.6),
	detector.WithAllDetectors(),
	detector.WithMaxInputLength(MaxSubmittedChars),
)

// Enrich sanitizes the body, submits it to the service, and parses the reply.
// Returns (nil, nil) when there is nothing to enrich: empty content, content
// flagged by the prompt guard, or a reply with neither tags nor description.
// Service failures return (nil, err) after logging; callers treat the
// enrichment as absent either way.
func (s *Service) Enrich(title, body, folder string) (*Metadata, error) {
	text := markdown.Sanitize(body)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > MaxSubmittedChars {
		text = markdown.TruncateRunes(text, MaxSubmittedChars)
	}

	if result := promptGuard.Detect(context.Background(), text); !result.Safe {
		logger.Warn("skipping enrichment: content flagged by prompt guard", map[string]interface{}{
			"title": title,
		})
		return nil, nil
	}

	raw, err := s.client.GenerateJSON(buildPrompt(title, folder, text))
	if err != nil {
		logger.Warn("enrichment call failed", map[string]interface{}{
			"title":    title,
			"provider": s.client.Provider(),
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("enrichment call: %w", err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var reply struct {
		Tags        []string `json:"tags"`
		Description string   `json:"description"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &reply); err != nil {
		logger.Warn("enrichment reply is not valid JSON", map[string]interface{}{
			"title": title,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("parse enrichment reply: %w", err)
	}

	tags := normalizeTags(reply.Tags)
	description := strings.TrimSpace(reply.Description)
	if len(tags) == 0 && description == "" {
		return nil, nil
	}
	return &Metadata{Tags: tags, Description: description}, nil
}

func buildPrompt(title, folder, text string) string {
	return fmt.Sprintf(`You are helping build metadata for a personal notes app.
Return JSON only with keys: tags (array of 4-8 short lowercase tags), description (1 sentence, <=160 chars).
Use the note title and content. Avoid generic tags like "note" or "personal".

Title: %s
Folder: %s
Content: %s
`, title, folder, text)
}

// extractJSON returns the first JSON object substring of a reply, tolerating
// the prose some services wrap around it. Falls back to the raw reply when no
// braces are found so the parse error carries the full text.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return raw
	}
	return raw[start : end+1]
}

// normalizeTags lowercases and trims tags, drops empties, and caps the list
// at MaxTags, truncating from the end.
func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}
