package grading

import (
	"math"
	"testing"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		name       string
		pct        float64
		wantLetter string
		wantPoints float64
	}{
		{name: "top", pct: 100, wantLetter: "A+", wantPoints: 10},
		{name: "A+ lower bound inclusive", pct: 90.0, wantLetter: "A+", wantPoints: 10},
		{name: "just below A+", pct: 89.9999, wantLetter: "A", wantPoints: 9},
		{name: "A lower bound", pct: 80, wantLetter: "A", wantPoints: 9},
		{name: "B+ lower bound", pct: 70, wantLetter: "B+", wantPoints: 8},
		{name: "just below B+", pct: 69.9999, wantLetter: "B", wantPoints: 7},
		{name: "B lower bound", pct: 60, wantLetter: "B", wantPoints: 7},
		{name: "C lower bound", pct: 50, wantLetter: "C", wantPoints: 6},
		{name: "D lower bound", pct: 40.0, wantLetter: "D", wantPoints: 5},
		{name: "just below D", pct: 39.9999, wantLetter: "F", wantPoints: 0},
		{name: "zero", pct: 0, wantLetter: "F", wantPoints: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GradeFor(tt.pct)
			if g.Letter != tt.wantLetter || g.Points != tt.wantPoints {
				t.Errorf("GradeFor(%v) = %v/%v, want %v/%v", tt.pct, g.Letter, g.Points, tt.wantLetter, tt.wantPoints)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(45, 50); got != 90 {
		t.Errorf("Percentage(45, 50) = %v, want 90", got)
	}
	if got := Percentage(1, 3); math.Abs(got-33.333333) > 1e-4 {
		t.Errorf("Percentage(1, 3) = %v, want ~33.3333", got)
	}
}

func TestGPA(t *testing.T) {
	tests := []struct {
		name  string
		items []CreditedPoints
		want  float64
	}{
		{name: "no records", items: nil, want: 0},
		{name: "zero credits", items: []CreditedPoints{{Credits: 0, Points: 10}}, want: 0},
		{name: "single", items: []CreditedPoints{{Credits: 3, Points: 9}}, want: 9},
		{
			name:  "credit weighted",
			items: []CreditedPoints{{Credits: 3, Points: 9}, {Credits: 1, Points: 5}},
			want:  8.0, // (3*9 + 1*5) / 4
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GPA(tt.items); got != tt.want {
				t.Errorf("GPA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttendancePercent(t *testing.T) {
	// 10 sessions: 6 present + 2 late count as attended, 2 absent do not.
	if got := AttendancePercent(8, 10); got != 80 {
		t.Errorf("AttendancePercent(8, 10) = %v, want 80", got)
	}
	if got := AttendancePercent(0, 0); got != 0 {
		t.Errorf("AttendancePercent(0, 0) = %v, want 0", got)
	}
}
