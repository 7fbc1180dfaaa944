package models

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNegative SentimentLabel = "negative"
	LabelNeutral  SentimentLabel = "neutral"
	LabelMixed    SentimentLabel = "mixed"
)

// ScoreVector holds the lexicon scorer output. Positive, Negative and Neutral
// are proportions that sum to 1.
type ScoreVector struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Compound float64 `json:"compound"`
}

type SentimentResult struct {
	Sentiment      SentimentLabel `json:"sentiment"`
	Confidence     float64        `json:"confidence"`
	Scores         ScoreVector    `json:"scores"`
	NormalizedText string         `json:"normalizedText"`
	Polarity       *float64       `json:"polarity,omitempty"`
	Subjectivity   *float64       `json:"subjectivity,omitempty"`
}

// SentimentStats counts results per label. Total always equals the sum of the
// four buckets.
type SentimentStats struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Mixed    int `json:"mixed"`
	Total    int `json:"total"`
}

// Add counts one result. Labels outside the known set land in Neutral.
func (s *SentimentStats) Add(label SentimentLabel) {
	switch label {
	case LabelPositive:
		s.Positive++
	case LabelNegative:
		s.Negative++
	case LabelMixed:
		s.Mixed++
	default:
		s.Neutral++
	}
	s.Total++
}
