package audit

import "math"

// Score classes used by report renderers.
const (
	ClassGood   = "good"
	ClassMedium = "medium"
	ClassPoor   = "poor"
)

// Score maps results to 0-100 using the status weights (pass 100, warning 50,
// fail 0). An empty list scores 0.
func Score(results []Result) int {
	if len(results) == 0 {
		return 0
	}

	total := 0
	for _, r := range results {
		total += r.Status.Weight()
	}

	score := int(math.Round(100 * float64(total) / float64(100*len(results))))
	return clamp(score)
}

// Overall combines the performance and security scores.
func Overall(performance, security int) int {
	return clamp(int(math.Round(float64(performance+security) / 2)))
}

// Class maps a score to good (>=80), medium (50-79) or poor (<50).
func Class(score int) string {
	switch {
	case score >= 80:
		return ClassGood
	case score >= 50:
		return ClassMedium
	default:
		return ClassPoor
	}
}

// Summary counts results per status.
type Summary struct {
	Pass    int `json:"pass" yaml:"pass"`
	Warning int `json:"warning" yaml:"warning"`
	Fail    int `json:"fail" yaml:"fail"`
}

// Summarize counts results per status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Pass++
		case StatusWarning:
			s.Warning++
		case StatusFail:
			s.Fail++
		}
	}
	return s
}

// Issues returns the number of non-passing results.
func (s Summary) Issues() int {
	return s.Warning + s.Fail
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
