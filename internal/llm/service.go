// Package llm integrates external language model providers for
// translation assistance, with deterministic fallbacks so the
// endpoints stay useful without credentials.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/mt"
	"github.com/richxcame/localeflow/pkg/config"
	"github.com/richxcame/localeflow/pkg/tracing"
)

// TranslationResult is the translate endpoint payload
type TranslationResult struct {
	Translation string  `json:"translation"`
	Confidence  float64 `json:"confidence"`
	Provider    string  `json:"provider"`
}

// QualityResult is the quality estimation payload
type QualityResult struct {
	QualityScore float64  `json:"quality_score"`
	RiskLevel    string   `json:"risk_level"`
	Issues       []string `json:"issues"`
	Suggestions  []string `json:"suggestions"`
}

// Service routes requests to configured providers and falls back to
// heuristics when a provider is missing or failing.
type Service struct {
	providers map[string]Provider
	logger    *zap.Logger
}

// NewService builds the provider set from configuration. Providers
// without credentials are simply not registered.
func NewService(cfg config.LLMConfig, logger *zap.Logger) *Service {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	providers := make(map[string]Provider)
	if cfg.OpenAIKey != "" {
		providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey, timeout)
	}
	if cfg.AnthropicKey != "" {
		providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey, timeout)
	}
	if cfg.GoogleKey != "" {
		providers["google"] = NewGoogleProvider(cfg.GoogleKey, timeout)
	}
	return &Service{providers: providers, logger: logger}
}

// TranslateText translates via the named provider, falling back to the
// stub result on any failure or unknown provider.
func (s *Service) TranslateText(ctx context.Context, text, sourceLang, targetLang, contextHint, providerName string) TranslationResult {
	ctx, span := tracing.Tracer("llm").Start(ctx, "llm.translate")
	defer span.End()

	provider, ok := s.providers[providerName]
	if !ok {
		return fallbackTranslation(text)
	}

	prompt := translationPrompt(text, sourceLang, targetLang, contextHint)
	translation, err := provider.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("llm translation failed, using fallback",
			zap.String("provider", providerName), zap.Error(err))
		return fallbackTranslation(text)
	}

	return TranslationResult{
		Translation: translation,
		Confidence:  provider.Confidence(),
		Provider:    provider.Name(),
	}
}

// EstimateQuality asks the default provider for a structured quality
// judgment, falling back to a length-similarity heuristic.
func (s *Service) EstimateQuality(ctx context.Context, sourceText, translatedText, sourceLang, targetLang string) QualityResult {
	ctx, span := tracing.Tracer("llm").Start(ctx, "llm.estimate_quality")
	defer span.End()

	provider, ok := s.providers["openai"]
	if !ok {
		return fallbackQuality(sourceText, translatedText)
	}

	prompt := fmt.Sprintf(`Analyze the quality of this translation:

Source (%s): %s
Translation (%s): %s

Respond in JSON format:
{"quality_score": <number>, "risk_level": "<low|medium|high>", "issues": [], "suggestions": []}`,
		sourceLang, sourceText, targetLang, translatedText)

	raw, err := provider.Complete(ctx, prompt)
	if err != nil {
		return fallbackQuality(sourceText, translatedText)
	}
	var result QualityResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("llm quality response was not valid JSON, using fallback", zap.Error(err))
		return fallbackQuality(sourceText, translatedText)
	}
	return result
}

// SuggestImprovements returns improvement suggestions, heuristic when
// no provider is available.
func (s *Service) SuggestImprovements(ctx context.Context, sourceText, translatedText, contextHint string) []string {
	ctx, span := tracing.Tracer("llm").Start(ctx, "llm.suggest_improvements")
	defer span.End()

	provider, ok := s.providers["openai"]
	if !ok {
		return fallbackSuggestions(sourceText, translatedText)
	}

	if contextHint == "" {
		contextHint = "No additional context"
	}
	prompt := fmt.Sprintf(`Suggest improvements for this translation:

Source: %s
Translation: %s
Context: %s

Provide 3-5 specific suggestions for improvement.`, sourceText, translatedText, contextHint)

	raw, err := provider.Complete(ctx, prompt)
	if err != nil {
		return fallbackSuggestions(sourceText, translatedText)
	}

	var suggestions []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			suggestions = append(suggestions, trimmed)
		}
	}
	return suggestions
}

func translationPrompt(text, sourceLang, targetLang, contextHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text from %s to %s:", sourceLang, targetLang)
	if contextHint != "" {
		fmt.Fprintf(&b, "\n\nContext: %s", contextHint)
	}
	fmt.Fprintf(&b, "\n\nText: %s", text)
	b.WriteString("\n\nProvide only the translation, maintaining the original tone and style.")
	return b.String()
}

func fallbackTranslation(text string) TranslationResult {
	return TranslationResult{
		Translation: text,
		Confidence:  0.6,
		Provider:    "stub",
	}
}

func fallbackQuality(sourceText, translatedText string) QualityResult {
	if translatedText == "" {
		return QualityResult{
			QualityScore: 55.0,
			RiskLevel:    string(mt.RiskHigh),
			Issues:       []string{"Translation output was empty"},
			Suggestions:  []string{"Re-run MT or assign human translator."},
		}
	}

	shorter := float64(len(translatedText))
	longer := float64(len(sourceText))
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer < 1 {
		longer = 1
	}
	similarity := shorter / longer

	quality := math.Round((70+similarity*25)*100) / 100
	if quality > 100 {
		quality = 100
	}

	return QualityResult{
		QualityScore: quality,
		RiskLevel:    string(mt.ClassifyRisk(quality)),
		Issues:       []string{},
		Suggestions:  []string{"Proceed with reviewer spot-checks."},
	}
}

func fallbackSuggestions(sourceText, translatedText string) []string {
	var suggestions []string
	if sourceText != "" && translatedText != "" &&
		strings.EqualFold(sourceText, translatedText) {
		suggestions = append(suggestions, "Localise terminology instead of mirroring the source text.")
	}
	if len(strings.Fields(translatedText)) < len(strings.Fields(sourceText)) {
		suggestions = append(suggestions, "Ensure important qualifiers from the source are preserved.")
	}
	suggestions = append(suggestions, "Have a reviewer validate tone and style for the target market.")
	return suggestions
}
