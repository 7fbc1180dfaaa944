package sentiment

import (
	"errors"
	"fmt"
	"math"

	"github.com/spacesedan/tubesentiment/internal/models"
)

const (
	PolicyLexicon  = "lexicon"
	PolicyEnsemble = "ensemble"
)

// Confidence scales reported alongside results. The two policies are not
// comparable: percent is 0-100, magnitude is |combined| on 0-1.
const (
	ScalePercent   = "percent"
	ScaleMagnitude = "magnitude"
)

var ErrUnknownPolicy = errors.New("unknown sentiment policy")

// Signals is everything a policy may look at for one text.
type Signals struct {
	Scores       models.ScoreVector
	Polarity     float64
	Subjectivity float64
	// Empty is set when normalization left nothing to score.
	Empty bool
}

// Policy maps scorer output to a label and a confidence.
type Policy interface {
	Name() string
	ConfidenceScale() string
	// UsesPattern reports whether Classify reads Polarity/Subjectivity.
	UsesPattern() bool
	Classify(s Signals) (models.SentimentLabel, float64)
}

// PolicyByName returns the default-tuned policy registered under name.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", PolicyLexicon:
		return DefaultLexiconPolicy(), nil
	case PolicyEnsemble:
		return DefaultEnsemblePolicy(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// LexiconPolicy is the single-scorer, two-band policy.
type LexiconPolicy struct {
	PositiveThreshold  float64
	NegativeThreshold  float64
	CompoundWeight     float64
	DistributionWeight float64
}

func DefaultLexiconPolicy() LexiconPolicy {
	return LexiconPolicy{
		PositiveThreshold:  0.05,
		NegativeThreshold:  -0.05,
		CompoundWeight:     0.7,
		DistributionWeight: 0.3,
	}
}

func (p LexiconPolicy) Name() string { return PolicyLexicon }
func (p LexiconPolicy) ConfidenceScale() string { return ScalePercent }
func (p LexiconPolicy) UsesPattern() bool { return false }

// Label applies inclusive thresholds: compound == 0.05 is positive.
func (p LexiconPolicy) Label(compound float64) models.SentimentLabel {
	switch {
	case compound >= p.PositiveThreshold:
		return models.LabelPositive
	case compound <= p.NegativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// Confidence blends compound strength with how dominant one proportion is,
// capped at 100 and rounded to two decimals.
func (p LexiconPolicy) Confidence(v models.ScoreVector) float64 {
	dominant := max(v.Positive, v.Negative, v.Neutral)
	c := p.CompoundWeight*math.Abs(v.Compound)*100 + p.DistributionWeight*dominant*100
	return clamp(roundTo(c, 2), 0, 100)
}

func (p LexiconPolicy) Classify(s Signals) (models.SentimentLabel, float64) {
	if s.Empty || !HasSignal(s.Scores) {
		return models.LabelNeutral, 0
	}
	return p.Label(s.Scores.Compound), p.Confidence(s.Scores)
}

// EnsemblePolicy blends the VADER compound with the pattern polarity and
// uses four bands. Between the neutral band and the decisive thresholds a
// text is mixed.
type EnsemblePolicy struct {
	LexiconWeight     float64
	PatternWeight     float64
	DecisiveThreshold float64
	NeutralBand       float64
}

func DefaultEnsemblePolicy() EnsemblePolicy {
	return EnsemblePolicy{
		LexiconWeight:     0.7,
		PatternWeight:     0.3,
		DecisiveThreshold: 0.15,
		NeutralBand:       0.05,
	}
}

func (p EnsemblePolicy) Name() string { return PolicyEnsemble }
func (p EnsemblePolicy) ConfidenceScale() string { return ScaleMagnitude }
func (p EnsemblePolicy) UsesPattern() bool { return true }

func (p EnsemblePolicy) Combine(compound, polarity float64) float64 {
	return p.LexiconWeight*compound + p.PatternWeight*polarity
}

// Label: > 0.15 positive, < -0.15 negative, [-0.05, 0.05] neutral, anything
// else mixed. Both ±0.15 themselves are mixed.
func (p EnsemblePolicy) Label(combined float64) models.SentimentLabel {
	switch {
	case combined > p.DecisiveThreshold:
		return models.LabelPositive
	case combined < -p.DecisiveThreshold:
		return models.LabelNegative
	case combined >= -p.NeutralBand && combined <= p.NeutralBand:
		return models.LabelNeutral
	default:
		return models.LabelMixed
	}
}

func (p EnsemblePolicy) Classify(s Signals) (models.SentimentLabel, float64) {
	if s.Empty {
		return models.LabelNeutral, 0
	}
	combined := p.Combine(s.Scores.Compound, s.Polarity)
	return p.Label(combined), math.Abs(combined)
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
