package usecase

// LevenshteinDistance calculates the edit distance between two strings,
// counted in runes. It keeps a single working row sized to the shorter input.
func LevenshteinDistance(a, b string) int {
	r1 := []rune(a)
	r2 := []rune(b)

	// Iterate over the longer string so the row tracks the shorter one
	if len(r2) > len(r1) {
		r1, r2 = r2, r1
	}
	if len(r2) == 0 {
		return len(r1)
	}

	row := make([]int, len(r2)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		diag := row[0] // row[i-1][j-1]
		row[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			above := row[j]
			row[j] = min(
				above+1,    // deletion
				row[j-1]+1, // insertion
				diag+cost,  // substitution
			)
			diag = above
		}
	}

	return row[len(r2)]
}

// NameSimilarity returns (maxLen - distance) / maxLen, in runes. Two empty
// strings are identical.
func NameSimilarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-LevenshteinDistance(a, b)) / float64(maxLen)
}
