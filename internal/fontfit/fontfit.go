// Package fontfit estimates font sizes that keep translated text within a
// shape's width. Translations frequently run longer than the source text, so
// the estimator shrinks the font, but conservatively: reductions are bounded
// per size band and never cross a tiered floor, trading residual overflow for
// font-size stability.
package fontfit

// OverflowTolerance is the fraction of the available width text may exceed
// before any shrinking happens.
const OverflowTolerance = 1.1

// Fit returns the font size to apply to text that must fit in maxWidth
// points, starting from currentSize points.
//
// Blank text and text already within tolerance keep the current size. For
// overflowing text, the proportionally scaled size is clamped to a floor
// computed from the current size band:
//
//	size >= 20pt: at most 2.0pt reduction; >= 14pt: 1.5pt; else 1.0pt
//	size >= 24pt: never below 20pt; >= 16pt: never below 13pt;
//	else never below max(minSize, 10pt)
func Fit(text string, maxWidth, currentSize, minSize float64) float64 {
	if isBlank(text) {
		return currentSize
	}

	currentWidth := StringWidth(text, currentSize)
	if currentWidth <= maxWidth*OverflowTolerance {
		return currentSize
	}

	var maxReduction float64
	switch {
	case currentSize >= 20:
		maxReduction = 2.0
	case currentSize >= 14:
		maxReduction = 1.5
	default:
		maxReduction = 1.0
	}

	var absoluteFloor float64
	switch {
	case currentSize >= 24:
		absoluteFloor = 20.0
	case currentSize >= 16:
		absoluteFloor = 13.0
	default:
		absoluteFloor = minSize
		if absoluteFloor < 10.0 {
			absoluteFloor = 10.0
		}
	}

	finalFloor := currentSize - maxReduction
	if absoluteFloor > finalFloor {
		finalFloor = absoluteFloor
	}

	candidate := currentSize * (maxWidth / currentWidth)
	if candidate < finalFloor {
		return finalFloor
	}
	return candidate
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
