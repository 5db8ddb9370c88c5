package fontfit

import (
	"math"
	"strings"
	"testing"
)

func TestFitKeepsSizeWithinTolerance(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		maxWidth    float64
		currentSize float64
	}{
		{
			name:        "short text",
			text:        "Hi",
			maxWidth:    200,
			currentSize: 18,
		},
		{
			name:        "exact fit",
			text:        "Hello",
			maxWidth:    StringWidth("Hello", 18),
			currentSize: 18,
		},
		{
			name:        "slight overflow inside tolerance",
			text:        "Hello",
			maxWidth:    StringWidth("Hello", 18) / 1.05,
			currentSize: 18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.text, tt.maxWidth, tt.currentSize, 10)
			if got != tt.currentSize {
				t.Errorf("Fit() = %v, want unchanged %v", got, tt.currentSize)
			}
		})
	}
}

func TestFitBlankTextUnchanged(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		if got := Fit(text, 1, 24, 10); got != 24 {
			t.Errorf("Fit(%q) = %v, want 24", text, got)
		}
	}
}

func TestFitTieredReduction(t *testing.T) {
	// A long line in a narrow shape forces the maximum reduction for the
	// size tier, never more.
	long := strings.Repeat("Wide text that will not fit. ", 10)

	tests := []struct {
		name        string
		currentSize float64
		minSize     float64
		want        float64
	}{
		{
			name:        "large size loses at most two points",
			currentSize: 30,
			minSize:     10,
			want:        28,
		},
		{
			name:        "medium size loses at most one and a half",
			currentSize: 18,
			minSize:     10,
			want:        16.5,
		},
		{
			name:        "small size loses at most one point",
			currentSize: 12,
			minSize:     10,
			want:        11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(long, 50, tt.currentSize, tt.minSize)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Fit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitAbsoluteFloors(t *testing.T) {
	long := strings.Repeat("overflow ", 40)

	tests := []struct {
		name        string
		currentSize float64
		minSize     float64
		floor       float64
	}{
		{name: "headline floor", currentSize: 24, minSize: 8, floor: 20},
		{name: "body floor", currentSize: 16, minSize: 8, floor: 13},
		{name: "small text floor", currentSize: 12, minSize: 11, floor: 11},
		{name: "small text hard floor", currentSize: 12, minSize: 8, floor: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(long, 10, tt.currentSize, tt.minSize)
			if got < tt.floor {
				t.Errorf("Fit() = %v, below floor %v", got, tt.floor)
			}
		})
	}
}

func TestFitNeverIncreasesSize(t *testing.T) {
	got := Fit("x", 10000, 14, 10)
	if got > 14 {
		t.Errorf("Fit() = %v, must not exceed current size 14", got)
	}
}

func TestStringWidthScalesWithSize(t *testing.T) {
	w12 := StringWidth("Sample", 12)
	w24 := StringWidth("Sample", 24)
	if math.Abs(w24-2*w12) > 1e-9 {
		t.Errorf("width at 24pt = %v, want double of 12pt width %v", w24, w12)
	}
}

func TestStringWidthUnknownRune(t *testing.T) {
	if StringWidth("汉", 10) <= 0 {
		t.Error("unknown rune should have a positive fallback width")
	}
}
