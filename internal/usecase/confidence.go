package usecase

import "github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"

// CalculateAverageConfidence returns the mean confidence of results, or 0
// for an empty slice.
func CalculateAverageConfidence(results []domain.MatchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range results {
		total += r.Confidence
	}
	return total / float64(len(results))
}

// ConfidenceLevel returns a human-readable confidence level
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "high"
	case confidence >= 0.7:
		return "medium"
	case confidence >= 0.5:
		return "low"
	default:
		return "none"
	}
}
