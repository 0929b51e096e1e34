// Package ranking extracts ordered response labels from free-text peer
// evaluations and folds them into aggregate placements.
package ranking

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// headerWindow bounds how far past a ranking header the numbered list
	// may extend.
	headerWindow = 300
	// tailWindow is scanned when no header is present.
	tailWindow = 400
	// bulletWindow bounds the bullet-list fallback scan.
	bulletWindow = 500

	// maxPosition rejects implausible rank numbers.
	maxPosition = 10
	// minEntries is the smallest ranking worth reporting.
	minEntries = 2
)

var (
	headerPattern   = regexp.MustCompile(`(?i)(FINAL RANKING:|MY RANKING:|RANKING:\n|RANKED ORDER:)`)
	numberedPattern = regexp.MustCompile(`(?i)(\d+)[.\):\s]+Response ([A-Z])`)
	bulletPattern   = regexp.MustCompile(`(?i)[-•*]\s*Response\s+([A-Z])`)
)

// Parse extracts an ordered ranking of canonical "Response X" labels from
// one evaluator's reply. Layers run in order and the first that yields a
// valid ranking wins: an explicit header section, a scan of the reply's
// tail, then a bullet-list fallback. Parse never fails; input without a
// recognizable ranking returns an empty list.
func Parse(text string) []string {
	if text == "" {
		return nil
	}
	if labels := parseHeaderSection(text); labels != nil {
		return labels
	}
	if labels := parseTail(text); labels != nil {
		return labels
	}
	return parseBullets(text)
}

// parseHeaderSection reads the numbered list that follows an explicit
// ranking header.
func parseHeaderSection(text string) []string {
	loc := headerPattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	return parseNumbered(firstChars(text[loc[1]:], headerWindow))
}

// parseTail applies the numbered extraction to the end of the reply, where
// models that skip the requested header still tend to put their ranking.
func parseTail(text string) []string {
	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")
	if len(paragraphs) > 2 {
		paragraphs = paragraphs[len(paragraphs)-2:]
	}
	return parseNumbered(lastChars(strings.Join(paragraphs, "\n\n"), tailWindow))
}

// parseBullets accepts an unnumbered bullet list as a last resort, keeping
// the first occurrence of each label.
func parseBullets(text string) []string {
	matches := bulletPattern.FindAllStringSubmatch(lastChars(text, bulletWindow), -1)

	seen := make(map[string]bool, len(matches))
	var labels []string
	for _, m := range matches {
		letter := strings.ToUpper(m[1])
		if seen[letter] {
			continue
		}
		seen[letter] = true
		labels = append(labels, "Response "+letter)
	}
	if len(labels) < minEntries {
		return nil
	}
	return labels
}

// parseNumbered builds a position map from "N. Response X" entries. The
// first occurrence of each position wins; the result must start at 1 and
// be consecutive, stopping at the first gap.
func parseNumbered(section string) []string {
	matches := numberedPattern.FindAllStringSubmatch(section, -1)
	if matches == nil {
		return nil
	}

	positions := make(map[int]string, len(matches))
	for _, m := range matches {
		pos, err := strconv.Atoi(m[1])
		if err != nil || pos < 1 || pos > maxPosition {
			continue
		}
		if _, taken := positions[pos]; !taken {
			positions[pos] = strings.ToUpper(m[2])
		}
	}

	var labels []string
	for pos := 1; ; pos++ {
		letter, ok := positions[pos]
		if !ok {
			break
		}
		labels = append(labels, "Response "+letter)
	}
	if len(labels) < minEntries {
		return nil
	}
	return labels
}

func firstChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func lastChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
