package bias

import (
	"regexp"
	"strings"
)

// Label is a political-bias bucket.
type Label string

const (
	Left   Label = "left"
	Center Label = "center"
	Right  Label = "right"
)

// DisplayName returns the Korean label shown in the three-column layout.
func (l Label) DisplayName() string {
	switch l {
	case Left:
		return "진보"
	case Right:
		return "보수"
	default:
		return "중도"
	}
}

// FromScore maps a backend bias score in [-1, 1] to a bucket.
// Scores at or below -0.3 are left, at or below 0.3 center, else right.
func FromScore(score float64) Label {
	if score <= -0.3 {
		return Left
	}
	if score <= 0.3 {
		return Center
	}
	return Right
}

var (
	leftPattern  = regexp.MustCompile(`progressive|민주|진보|left|bernie|복지`)
	rightPattern = regexp.MustCompile(`conservative|보수|trump|우파|gop|market`)
)

// ClassifyTitle is the legacy keyword heuristic used before the backend
// scored videos. Kept for search results that arrive without a score.
func ClassifyTitle(title string) Label {
	lower := strings.ToLower(title)
	if leftPattern.MatchString(lower) {
		return Left
	}
	if rightPattern.MatchString(lower) {
		return Right
	}
	return Center
}
