package sentiment

import (
	"github.com/spacesedan/tubesentiment/internal/models"
)

type AnalyzerConfig struct {
	// Policy is PolicyLexicon (default) or PolicyEnsemble.
	Policy string
	// Normalize overrides the normalizer preset that matches the policy.
	Normalize *NormalizeOptions
	// Lexicon defaults to DefaultCustomLexicon.
	Lexicon *CustomLexicon
}

// Analyzer runs the full pipeline: normalize, score, classify. It is
// read-only after NewAnalyzer and safe for concurrent use.
type Analyzer struct {
	normalizer Normalizer
	scorer     *LexiconScorer
	pattern    *PatternScorer
	policy     Policy
}

func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	policy, err := PolicyByName(cfg.Policy)
	if err != nil {
		return nil, err
	}

	opts := LexiconNormalizeOptions()
	if policy.UsesPattern() {
		opts = EnsembleNormalizeOptions()
	}
	if cfg.Normalize != nil {
		opts = *cfg.Normalize
	}

	lexicon := cfg.Lexicon
	if lexicon == nil {
		lexicon = DefaultCustomLexicon()
	}

	a := &Analyzer{
		normalizer: NewNormalizer(opts),
		scorer:     NewLexiconScorer(lexicon),
		policy:     policy,
	}
	if policy.UsesPattern() {
		a.pattern = NewPatternScorer()
	}
	return a, nil
}

func (a *Analyzer) Policy() Policy {
	return a.policy
}

// Analyze scores a single raw text. It never fails: empty or signal-free
// text comes back neutral with zero confidence.
func (a *Analyzer) Analyze(text string) models.SentimentResult {
	normalized := a.normalizer.Normalize(text)

	signals := Signals{Empty: normalized == ""}
	if signals.Empty {
		signals.Scores = models.ScoreVector{Neutral: 1}
	} else {
		signals.Scores = a.scorer.Score(normalized)
	}
	if a.pattern != nil && !signals.Empty {
		signals.Polarity, signals.Subjectivity = a.pattern.Score(normalized)
	}

	label, confidence := a.policy.Classify(signals)
	result := models.SentimentResult{
		Sentiment:      label,
		Confidence:     confidence,
		Scores:         signals.Scores,
		NormalizedText: normalized,
	}
	if a.pattern != nil {
		polarity, subjectivity := signals.Polarity, signals.Subjectivity
		result.Polarity = &polarity
		result.Subjectivity = &subjectivity
	}
	return result
}

// AnalyzeTexts scores texts in order and tallies the labels.
func (a *Analyzer) AnalyzeTexts(texts []string) ([]models.SentimentResult, models.SentimentStats) {
	results := make([]models.SentimentResult, len(texts))
	for i, text := range texts {
		results[i] = a.Analyze(text)
	}
	return results, Aggregate(results)
}

// AnalyzeComments scores comments in their given order.
func (a *Analyzer) AnalyzeComments(comments []models.RawComment) ([]models.AnalyzedComment, models.SentimentStats) {
	analyzed := make([]models.AnalyzedComment, len(comments))
	var stats models.SentimentStats
	for i, c := range comments {
		result := a.Analyze(c.Text)
		analyzed[i] = models.AnalyzedComment{RawComment: c, SentimentResult: result}
		stats.Add(result.Sentiment)
	}
	return analyzed, stats
}
