package report

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Metrics compares one transcription variant against the reference text.
type Metrics struct {
	// WordAccuracy is the fraction of reference words reproduced, 0..1.
	WordAccuracy float64 `json:"word_accuracy"`
	// CharSimilarity is 1 - levenshtein/len(reference), clamped to 0..1.
	CharSimilarity float64 `json:"char_similarity"`
	// EditDistance is the character-level Levenshtein distance.
	EditDistance int `json:"edit_distance"`
}

// Score computes comparison metrics for candidate against reference. Both
// texts are whitespace-normalized first so layout differences don't count as
// errors.
func Score(reference, candidate string) Metrics {
	ref := normalize(reference)
	cand := normalize(candidate)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(ref, cand, false)
	dist := dmp.DiffLevenshtein(diffs)

	m := Metrics{EditDistance: dist}
	if len(ref) > 0 {
		sim := 1 - float64(dist)/float64(len([]rune(ref)))
		if sim < 0 {
			sim = 0
		}
		m.CharSimilarity = sim
	} else if len(cand) == 0 {
		m.CharSimilarity = 1
	}
	m.WordAccuracy = wordAccuracy(ref, cand)
	return m
}

// wordAccuracy counts reference words matched by the candidate, multiset-wise.
func wordAccuracy(reference, candidate string) float64 {
	refWords := strings.Fields(strings.ToLower(reference))
	if len(refWords) == 0 {
		if len(strings.Fields(candidate)) == 0 {
			return 1
		}
		return 0
	}
	candCounts := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(candidate)) {
		candCounts[w]++
	}
	matched := 0
	for _, w := range refWords {
		if candCounts[w] > 0 {
			candCounts[w]--
			matched++
		}
	}
	return float64(matched) / float64(len(refWords))
}

// DiffText renders a compact inline diff: deletions in [-...-], insertions in
// {+...+}, shared text verbatim.
func DiffText(reference, candidate string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(normalize(reference), normalize(candidate), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
