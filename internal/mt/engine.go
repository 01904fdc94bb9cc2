package mt

import (
	"strings"
	"unicode"
)

// RiskLevel classifies machine translation output by MTQE score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Output carries machine translation results and quality metadata
type Output struct {
	Translation string    `json:"translation"`
	Quality     float64   `json:"quality"`
	Risk        RiskLevel `json:"risk"`
	QAFlags     []string  `json:"qa_flags"`
}

// Word-for-word lexicons per target locale. Unknown words pass through
// untouched, which the MTQE score penalizes.
var lexicons = map[string]map[string]string{
	"fr-fr": {
		"welcome":   "bienvenue",
		"to":        "à",
		"our":       "notre",
		"store":     "boutique",
		"update":    "mise à jour",
		"security":  "sécurité",
		"protocol":  "protocole",
		"account":   "compte",
		"statement": "relevé",
		"legal":     "juridique",
		"review":    "examen",
		"payment":   "paiement",
		"due":       "dû",
		"today":     "aujourd'hui",
	},
	"es-es": {
		"welcome":   "bienvenido",
		"to":        "a",
		"our":       "nuestro",
		"store":     "tienda",
		"security":  "seguridad",
		"update":    "actualización",
		"account":   "cuenta",
		"statement": "extracto",
		"legal":     "legal",
		"review":    "revisión",
		"payment":   "pago",
		"due":       "vencido",
		"today":     "hoy",
	},
	"de-de": {
		"welcome":   "willkommen",
		"to":        "zu",
		"our":       "unser",
		"store":     "geschäft",
		"security":  "sicherheit",
		"update":    "aktualisierung",
		"account":   "konto",
		"statement": "kontoauszug",
		"legal":     "rechtlich",
		"review":    "prüfung",
		"payment":   "zahlung",
		"due":       "fällig",
		"today":     "heute",
	},
}

// Sector keywords that raise the review risk of a segment
var sectorRiskKeywords = map[string][]string{
	"bfsi":      {"account", "iban", "routing", "statement", "ssn"},
	"legal":     {"clause", "contract", "liability", "warranty"},
	"ecommerce": {"sale", "discount", "flash"},
}

// Engine is a deterministic pseudo NMT engine with MTQE heuristics. It
// stands in for a real MT provider so the pipeline stays reproducible.
type Engine struct{}

// NewEngine creates the pseudo NMT engine
func NewEngine() *Engine {
	return &Engine{}
}

// Translate produces a lexicon translation of sourceText plus a quality
// estimate, risk class, and QA flags for the segment.
func (e *Engine) Translate(sourceText, sourceLocale, targetLocale, sector string) Output {
	words := strings.Fields(sourceText)
	lexicon := lexicons[strings.ToLower(targetLocale)]

	translatedWords := make([]string, len(words))
	unknownTokens := 0
	for i, word := range words {
		if replacement, ok := lexicon[strings.ToLower(word)]; ok {
			translatedWords[i] = replacement
		} else {
			translatedWords[i] = word
			unknownTokens++
		}
	}
	translation := strings.Join(translatedWords, " ")
	if translation == "" {
		translation = sourceText
	}

	quality := 92.0 - float64(unknownTokens)*4

	lowered := strings.ToLower(sourceText)
	riskAdjustment := 0.0
	for _, keyword := range sectorRiskKeywords[strings.ToLower(sector)] {
		if strings.Contains(lowered, keyword) {
			riskAdjustment += 6
		}
	}
	if strings.ContainsFunc(sourceText, unicode.IsDigit) {
		riskAdjustment += 4
	}
	if strings.Contains(sourceText, "%") || strings.Contains(sourceText, "{{") {
		riskAdjustment += 5
	}

	quality -= riskAdjustment
	if quality < 55 {
		quality = 55
	}
	if quality > 98 {
		quality = 98
	}

	risk := ClassifyRisk(quality)

	var qaFlags []string
	if risk == RiskHigh {
		qaFlags = append(qaFlags, "high_risk_segment")
	}
	if strings.Contains(lowered, "http") {
		qaFlags = append(qaFlags, "link_verification")
	}
	if strings.Contains(sourceText, "{{") {
		qaFlags = append(qaFlags, "placeholder_validation")
	}

	return Output{
		Translation: translation,
		Quality:     quality,
		Risk:        risk,
		QAFlags:     qaFlags,
	}
}

// ClassifyRisk maps an MTQE score onto a risk level
func ClassifyRisk(quality float64) RiskLevel {
	switch {
	case quality >= 85:
		return RiskLow
	case quality >= 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// SupportedLocales lists the target locales the lexicon engine covers
func SupportedLocales() []string {
	return []string{"fr-FR", "es-ES", "de-DE"}
}
