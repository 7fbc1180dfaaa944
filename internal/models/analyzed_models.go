package models

import "time"

// AnalyzedComment is a RawComment with its sentiment result flattened in.
type AnalyzedComment struct {
	RawComment
	SentimentResult
}

type CommentsResponse struct {
	VideoID          string            `json:"videoId"`
	VideoTitle       string            `json:"videoTitle,omitempty"`
	VideoPublishedAt *time.Time        `json:"videoPublishedAt,omitempty"`
	Policy           string            `json:"policy"`
	ConfidenceScale  string            `json:"confidenceScale"`
	Comments         []AnalyzedComment `json:"comments"`
	SentimentStats   SentimentStats    `json:"sentimentStats"`
}

type AnalyzeRequest struct {
	Texts []string `json:"texts"`
}

type AnalyzeResponse struct {
	Policy          string            `json:"policy"`
	ConfidenceScale string            `json:"confidenceScale"`
	Results         []SentimentResult `json:"results"`
	SentimentStats  SentimentStats    `json:"sentimentStats"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
