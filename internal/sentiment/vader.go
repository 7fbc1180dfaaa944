package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/tubesentiment/internal/models"
)

// LexiconScorer scores normalized text with VADER. The custom lexicon is
// merged into the analyzer once at construction.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
	custom   *CustomLexicon
}

func NewLexiconScorer(custom *CustomLexicon) *LexiconScorer {
	analyzer := govader.NewSentimentIntensityAnalyzer()

	// copy so custom terms never leak into other analyzers sharing the base map
	lexicon := make(map[string]float64, len(analyzer.Lexicon)+custom.Len())
	for term, v := range analyzer.Lexicon {
		lexicon[term] = v
	}
	for _, term := range custom.Terms() {
		v, _ := custom.Valence(term)
		lexicon[term] = v
	}
	analyzer.Lexicon = lexicon

	return &LexiconScorer{analyzer: analyzer, custom: custom}
}

// Score returns the VADER score vector for text. Positive, Negative and
// Neutral always sum to 1; text without any signal is fully neutral.
func (s *LexiconScorer) Score(text string) models.ScoreVector {
	if strings.TrimSpace(text) == "" {
		return models.ScoreVector{Neutral: 1}
	}

	raw := s.analyzer.PolarityScores(text)
	return normalizeVector(raw.Positive, raw.Negative, raw.Neutral, raw.Compound)
}

func normalizeVector(pos, neg, neu, compound float64) models.ScoreVector {
	pos, neg, neu, compound = finite(pos), finite(neg), finite(neu), finite(compound)
	pos, neg, neu = max(pos, 0), max(neg, 0), max(neu, 0)
	total := pos + neg + neu
	if total == 0 {
		return models.ScoreVector{Neutral: 1, Compound: clamp(compound, -1, 1)}
	}
	return models.ScoreVector{
		Positive: pos / total,
		Negative: neg / total,
		Neutral:  neu / total,
		Compound: clamp(compound, -1, 1),
	}
}

// HasSignal reports whether any token contributed valence.
func HasSignal(v models.ScoreVector) bool {
	return v.Positive > 0 || v.Negative > 0 || v.Compound != 0
}

// finite maps NaN and Inf to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
