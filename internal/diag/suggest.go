package diag

// Suggest finds the candidate closest to name by Levenshtein edit distance,
// for "did you mean X?" diagnostics (WJ0200 unresolved names, WJ0100
// unexpected-token recovery). Grounded on the teacher's
// internal/core.levenshteinDistance matrix; ok is false when candidates is
// empty or nothing is within maxDistance edits.
func Suggest(name string, candidates []string, maxDistance int) (best string, ok bool) {
	bestDist := maxDistance + 1
	for _, c := range candidates {
		d := levenshteinDistance(name, c)
		if d < bestDist {
			bestDist = d
			best = c
			ok = true
		}
	}
	return best, ok
}

// levenshteinDistance computes the edit distance between two strings via
// the standard dynamic-programming matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	cur := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		cur[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(s2)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
