package labelparse

// Similarity computes the Ratcliff-Obershelp similarity of two strings:
// twice the number of matching characters divided by the total length.
// The score is 1 for identical strings and 0 for disjoint ones.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	matched := matchTotal(ra, rb)
	return 2 * float64(matched) / float64(total)
}

// matchTotal sums matching block lengths: the longest common substring,
// then recursively the pieces to its left and right.
func matchTotal(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size + matchTotal(a[:ai], b[:bi]) + matchTotal(a[ai+size:], b[bi+size:])
}

// longestCommonSubstring returns the start offsets and length of the longest
// run of runes common to a and b. Ties resolve to the earliest position in
// a, then in b.
func longestCommonSubstring(a, b []rune) (int, int, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	bestA, bestB, bestSize := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
				if cur[j+1] > bestSize {
					bestSize = cur[j+1]
					bestA = i - bestSize + 1
					bestB = j - bestSize + 1
				}
			} else {
				cur[j+1] = 0
			}
		}
		prev, cur = cur, prev
	}
	return bestA, bestB, bestSize
}

// closestMatch returns the candidate most similar to input with a score of
// at least cutoff, or "" when none qualifies. Earlier candidates win ties.
func closestMatch(input string, candidates []string, cutoff float64) string {
	best := ""
	bestScore := -1.0
	for _, c := range candidates {
		score := Similarity(input, c)
		if score >= cutoff && score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}
