package sentiment

import "github.com/spacesedan/tubesentiment/internal/models"

// Aggregate tallies result labels. The bucket sum always equals len(results).
func Aggregate(results []models.SentimentResult) models.SentimentStats {
	var stats models.SentimentStats
	for _, r := range results {
		stats.Add(r.Sentiment)
	}
	return stats
}
