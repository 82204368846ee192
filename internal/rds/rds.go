package rds

import (
	"errors"
	"fmt"
	"math"
)

// Weights for the six rating dimensions. They sum to 1.0 and are fixed for
// the whole process; the score scale breaks if they become configurable.
const (
	WeightPerformance = 0.25
	WeightReliability = 0.20
	WeightEaseOfUse   = 0.15
	WeightValue       = 0.15
	WeightTrust       = 0.15
	WeightDelight     = 0.10
)

var ErrOutOfRange = errors.New("rating out of range: must be an integer between 1 and 10")

// Vector holds the six rating dimensions. Individual reviews carry integer
// values; solution-level averages are fractional, so the fields are float64.
// The zero Vector is the "no reviews yet" sentinel and is never a valid
// review rating.
type Vector struct {
	Performance float64 `json:"performance"`
	Reliability float64 `json:"reliability"`
	EaseOfUse   float64 `json:"ease_of_use"`
	Value       float64 `json:"value"`
	Trust       float64 `json:"trust"`
	Delight     float64 `json:"delight"`
}

// FromInts builds a validated Vector from the six integer ratings of a
// submitted review.
func FromInts(performance, reliability, easeOfUse, value, trust, delight int) (Vector, error) {
	fields := map[string]int{
		"performance": performance,
		"reliability": reliability,
		"ease_of_use": easeOfUse,
		"value":       value,
		"trust":       trust,
		"delight":     delight,
	}
	for name, v := range fields {
		if v < 1 || v > 10 {
			return Vector{}, fmt.Errorf("invalid %s rating: %w", name, ErrOutOfRange)
		}
	}
	return Vector{
		Performance: float64(performance),
		Reliability: float64(reliability),
		EaseOfUse:   float64(easeOfUse),
		Value:       float64(value),
		Trust:       float64(trust),
		Delight:     float64(delight),
	}, nil
}

// IsZero reports whether v is the "no reviews" sentinel.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// CalculateRDS maps a rating vector to the composite 0-100 Robot Dance
// Score: weighted sum on the 1-10 scale, scaled by 10 and rounded. The clamp
// is defensive; valid inputs can never produce a score below 10.
func CalculateRDS(v Vector) int {
	weightedSum := v.Performance*WeightPerformance +
		v.Reliability*WeightReliability +
		v.EaseOfUse*WeightEaseOfUse +
		v.Value*WeightValue +
		v.Trust*WeightTrust +
		v.Delight*WeightDelight

	score := int(math.Round(weightedSum * 10))

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// AverageRatings averages each dimension independently across the given
// vectors, rounded to one decimal place. An empty slice yields the zero
// sentinel; callers must not feed that sentinel to CalculateRDS.
func AverageRatings(vectors []Vector) Vector {
	if len(vectors) == 0 {
		return Vector{}
	}

	var sum Vector
	for _, v := range vectors {
		sum.Performance += v.Performance
		sum.Reliability += v.Reliability
		sum.EaseOfUse += v.EaseOfUse
		sum.Value += v.Value
		sum.Trust += v.Trust
		sum.Delight += v.Delight
	}

	n := float64(len(vectors))
	return Vector{
		Performance: Round1(sum.Performance / n),
		Reliability: Round1(sum.Reliability / n),
		EaseOfUse:   Round1(sum.EaseOfUse / n),
		Value:       Round1(sum.Value / n),
		Trust:       Round1(sum.Trust / n),
		Delight:     Round1(sum.Delight / n),
	}
}

// Round1 rounds to one decimal place, half away from zero. The trust score
// running average uses the same rounding as the dimension averages.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Classify buckets a score into its display label. Thresholds are inclusive
// on the lower bound of each bucket.
func Classify(score int) string {
	switch {
	case score >= 90:
		return "Exceptional"
	case score >= 80:
		return "Excellent"
	case score >= 70:
		return "Very Good"
	case score >= 60:
		return "Good"
	case score >= 50:
		return "Average"
	case score >= 40:
		return "Below Average"
	case score >= 30:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// Color returns the text color class for a score badge.
func Color(score int) string {
	switch {
	case score >= 80:
		return "text-green-600"
	case score >= 60:
		return "text-yellow-600"
	case score >= 40:
		return "text-orange-600"
	default:
		return "text-red-600"
	}
}

// BgColor returns the background color class for a score badge.
func BgColor(score int) string {
	switch {
	case score >= 80:
		return "bg-green-100"
	case score >= 60:
		return "bg-yellow-100"
	case score >= 40:
		return "bg-orange-100"
	default:
		return "bg-red-100"
	}
}
