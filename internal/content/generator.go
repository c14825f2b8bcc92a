package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenerateRequest carries the page parameters for a content draft.
type GenerateRequest struct {
	PageType       string   `json:"pageType"`
	Location       string   `json:"location,omitempty"`
	TargetKeywords []string `json:"targetKeywords,omitempty"`
	UseMake        bool     `json:"useMake,omitempty"`
	MakeWebhookURL string   `json:"makeWebhookUrl,omitempty"`
}

// GeneratedContent is the structured draft the model must return.
type GeneratedContent struct {
	HeroTitle       string   `json:"heroTitle"`
	HeroSubtitle    string   `json:"heroSubtitle"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	H1              string   `json:"h1"`
	Benefits        []string `json:"benefits"`
	ProcessSteps    []string `json:"processSteps"`
	FAQ             []FAQ    `json:"faq"`
	CTA             string   `json:"cta"`
}

// FAQ is one question/answer pair in the generated draft.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Completer produces a text reply for a prompt. Satisfied by ClaudeClient.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator builds the instruction prompt, calls the model and parses the
// JSON draft out of its reply.
type Generator struct {
	completer Completer
}

// NewGenerator wires a generator around a completer. The completer may be
// nil when no API key is configured; Generate then fails at call time.
func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// BuildPrompt renders the instruction prompt for the page parameters.
func BuildPrompt(req GenerateRequest) string {
	location := req.Location
	if location == "" {
		location = "your area"
	}
	keywords := strings.Join(req.TargetKeywords, ", ")
	if keywords == "" {
		keywords = req.PageType
	}

	return fmt.Sprintf(`Generate SEO-optimized landing page content for a bathroom remodeling service.

Project Type: %s
Location: %s
Target Keywords: %s

Generate the following content in JSON format:
{
  "heroTitle": "Compelling hero headline with primary keyword",
  "heroSubtitle": "Supporting subtitle that addresses customer pain points",
  "metaTitle": "SEO-optimized title tag (60 chars max)",
  "metaDescription": "SEO meta description (155 chars max)",
  "h1": "Primary H1 heading with keyword",
  "benefits": ["Benefit 1", "Benefit 2", "Benefit 3", "Benefit 4"],
  "processSteps": ["Step 1", "Step 2", "Step 3", "Step 4"],
  "faq": [
    {"question": "Question 1?", "answer": "Answer 1"},
    {"question": "Question 2?", "answer": "Answer 2"},
    {"question": "Question 3?", "answer": "Answer 3"}
  ],
  "cta": "Call-to-action text"
}

Requirements:
- Use %s naturally in the content
- Include %s in meta and H1
- Benefits should focus on value, not features
- Process steps should be simple and clear
- FAQ answers should be 2-3 sentences
- CTA should create urgency

Return ONLY valid JSON, no markdown or additional text.`,
		req.PageType, location, keywords, location, keywords)
}

// Generate asks the model for a draft and parses its reply. A reply without
// a parseable JSON object is a hard failure; no repair is attempted.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*GeneratedContent, error) {
	if g.completer == nil {
		return nil, errors.New("content: Claude API key not configured")
	}

	text, err := g.completer.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("content: generation failed: %w", err)
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var out GeneratedContent
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("content: invalid JSON in model reply: %w", err)
	}
	return &out, nil
}

// ExtractJSON locates the first balanced {...} span in the reply, stripping
// markdown code fences first if present. Braces inside string literals are
// ignored while scanning.
func ExtractJSON(text string) (string, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return "", errors.New("content: no JSON object in model reply")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}
	return "", errors.New("content: unbalanced JSON object in model reply")
}
