// Package conversation turns typed commands into intents and prints game
// messages to the terminal.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches typed input to intents using keywords and simple
// prefixes.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
	prefixes []prefixRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

type prefixRule struct {
	prefix string
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(voice|listen|mic|v)$`), domain.IntentToggleVoice},
		{regexp.MustCompile(`(?i)^(menu|m|back|done)$`), domain.IntentMenu},
		{regexp.MustCompile(`(?i)^(status|where|info|st)$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(recipes|list|ls|l)$`), domain.IntentListRecipes},
		{regexp.MustCompile(`(?i)^(history|scores|results)$`), domain.IntentHistory},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), domain.IntentQuit},
		{regexp.MustCompile(`^\+\s*\d{1,2}$`), domain.IntentAddIngredient},
	}
	p.prefixes = []prefixRule{
		{"select ", domain.IntentSelectRecipe},
		{"pick ", domain.IntentSelectRecipe},
		{"cook ", domain.IntentSelectRecipe},
		{"add ", domain.IntentAddIngredient},
		{"say ", domain.IntentSay},
	}
	return p
}

// Parse converts user input into an intent. It never fails; unrecognized
// input yields IntentUnknown with the input as payload.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number picks a recipe from the list.
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentSelectRecipe, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched intent: %s", rule.intent)
			intent := &domain.Intent{Type: rule.intent}
			if rule.intent == domain.IntentAddIngredient {
				intent.Payload = strings.TrimSpace(strings.TrimPrefix(trimmed, "+"))
			}
			return intent, nil
		}
	}

	lower := strings.ToLower(trimmed)
	for _, rule := range p.prefixes {
		if !strings.HasPrefix(lower, rule.prefix) {
			continue
		}
		payload := strings.TrimSpace(trimmed[len(rule.prefix):])
		if payload == "" {
			break
		}
		p.log.Debug("matched intent: %s (%q)", rule.intent, payload)
		return &domain.Intent{Type: rule.intent, Payload: payload}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
