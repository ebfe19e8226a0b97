// Package grading converts raw scores into percentages, letter grades and
// grade points, and aggregates those into credit-weighted GPAs. It is pure:
// no I/O, no state — callers fetch the rows and recompute on every write so
// derived metrics are never read stale.
package grading

// Grade is a letter grade with its grade points on the 0–10 scale.
type Grade struct {
	Letter string  `json:"letter"`
	Points float64 `json:"points"`
}

// grade bands: inclusive lower percentage bounds, evaluated highest-first,
// first match wins. No gaps, no overlaps.
var bands = []struct {
	min   float64
	grade Grade
}{
	{90, Grade{"A+", 10}},
	{80, Grade{"A", 9}},
	{70, Grade{"B+", 8}},
	{60, Grade{"B", 7}},
	{50, Grade{"C", 6}},
	{40, Grade{"D", 5}},
}

var gradeF = Grade{"F", 0}

// Percentage converts a raw score into a percentage of max.
// Not rounded at this stage; callers validate 0 <= raw <= max, max > 0.
func Percentage(raw, max float64) float64 {
	return (raw / max) * 100
}

// GradeFor maps a percentage onto the grade step function.
func GradeFor(pct float64) Grade {
	for _, b := range bands {
		if pct >= b.min {
			return b.grade
		}
	}
	return gradeF
}

// CreditedPoints is one published mark's contribution to a GPA.
type CreditedPoints struct {
	Credits float64
	Points  float64
}

// GPA is the credit-weighted average of grade points:
// Σ(points × credits) / Σ(credits). Returns 0 when there are no credits —
// a student with no published marks has no GPA yet, which is not an error.
func GPA(items []CreditedPoints) float64 {
	var points, credits float64
	for _, it := range items {
		points += it.Points * it.Credits
		credits += it.Credits
	}
	if credits == 0 {
		return 0
	}
	return points / credits
}

// AttendancePercent converts session counts into a percentage.
// Returns 0 when no sessions were held.
func AttendancePercent(attended, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(attended) / float64(total) * 100
}
