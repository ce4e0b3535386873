package evaluator

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultReason      = "No reason provided"
	reasonPreviewLimit = 100
	maxScore           = 10.0
)

// The extraction cascade. Order matters: a labeled score always wins over the
// blind numeric fallback, and the fallback only accepts integers in [0,10] so
// it cannot pick up unrelated numbers from free prose.
var (
	scoreLabelPattern = regexp.MustCompile(`(?i)SCORE:\s*(\d+\.?\d*)`)
	scoreAltPattern   = regexp.MustCompile(`(?i)(?:score|rating)[\s:]+(\d+\.?\d*)`)
	scoreBarePattern  = regexp.MustCompile(`\b([0-9]|10)(?:\.\d+)?\b`)
	reasonPattern     = regexp.MustCompile(`(?i)REASON:[ \t]*([^\n]+)`)
	sentencePattern   = regexp.MustCompile(`[.!?]\s+`)
)

// parseResponse extracts a (score, reason) pair from arbitrary model output.
// It never fails: unparseable input degrades to (0, "No reason provided").
func parseResponse(raw string) (float64, string) {
	return parseScore(raw), parseReason(raw)
}

func parseScore(raw string) float64 {
	score := 0.0

	if m := scoreLabelPattern.FindStringSubmatch(raw); m != nil {
		score, _ = strconv.ParseFloat(m[1], 64)
	} else if m := scoreAltPattern.FindStringSubmatch(raw); m != nil {
		score, _ = strconv.ParseFloat(m[1], 64)
	} else if m := scoreBarePattern.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 && v <= maxScore {
			score = v
		}
	}

	// Labeled strategies can yield out-of-range values ("SCORE: 15"); clamp
	// so the digest never carries a score outside the documented scale.
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}

	return score
}

func parseReason(raw string) string {
	if m := reasonPattern.FindStringSubmatch(raw); m != nil {
		if reason := strings.TrimSpace(m[1]); reason != "" {
			return reason
		}
	}

	reason := ""
	if sentences := sentencePattern.Split(raw, -1); len(sentences) > 1 {
		reason = truncateRunes(sentences[1], reasonPreviewLimit)
	} else {
		reason = truncateRunes(raw, reasonPreviewLimit)
	}

	if strings.TrimSpace(reason) == "" {
		return defaultReason
	}

	return reason
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
