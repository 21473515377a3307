package analyzer

// Sub-score weights. These are carried over unchanged from the scoring
// model this service replaces; do not retune without a product decision.
const (
	weightSyntax      = 0.3
	weightSemantic    = 0.3
	weightPerformance = 0.2
	weightSecurity    = 0.2
)

const (
	recommendThreshold         = 70
	securityRecommendThreshold = 80
	slowExecutionSeconds       = 5.0
	fastExecutionSeconds       = 0.1
)

// CombineScores computes the weighted overall score from clamped
// sub-scores.
func CombineScores(scores Scores) float64 {
	return clampScore(weightSyntax*clampScore(scores.Syntax) +
		weightSemantic*clampScore(scores.Semantic) +
		weightPerformance*clampScore(scores.Performance) +
		weightSecurity*clampScore(scores.Security))
}

// Recommend produces the ordered recommendation list: a headline tiered by
// the overall score, then one targeted item per lagging sub-score, then an
// execution-time note when a live run happened.
func Recommend(scores Scores, execution ExecutionReport) []string {
	recommendations := make([]string, 0, 4)

	switch {
	case scores.Overall >= 90:
		recommendations = append(recommendations, "Excellent query! This SQL appears to be well-structured and efficient.")
	case scores.Overall >= 70:
		recommendations = append(recommendations, "Good query with room for minor improvements.")
	case scores.Overall >= 50:
		recommendations = append(recommendations, "Query needs attention in several areas for optimal performance.")
	default:
		recommendations = append(recommendations, "Query requires significant improvements before production use.")
	}

	if scores.Syntax < recommendThreshold {
		recommendations = append(recommendations, "Review SQL syntax and fix any structural issues.")
	}
	if scores.Semantic < recommendThreshold {
		recommendations = append(recommendations, "Ensure the query accurately reflects the natural language intent.")
	}
	if scores.Performance < recommendThreshold {
		recommendations = append(recommendations, "Consider performance optimizations like indexing and query restructuring.")
	}
	if scores.Security < securityRecommendThreshold {
		recommendations = append(recommendations, "Address security concerns before using this query in production.")
	}

	if execution.Attempted && execution.Success {
		if execution.ElapsedSec > slowExecutionSeconds {
			recommendations = append(recommendations, "Query execution time is high - consider optimization.")
		} else if execution.ElapsedSec < fastExecutionSeconds {
			recommendations = append(recommendations, "Good: Query executes efficiently.")
		}
	}

	return recommendations
}
