package matching

// Ratio computes a Ratcliff/Obershelp similarity in [0, 1] between two
// strings: 2*M/T where M is the total length of the matching contiguous
// blocks and T the combined length of both strings. Matching blocks are
// found by recursively locating the longest common substring and repeating
// on the pieces to its left and right.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	m := matchingTotal(ra, rb)
	return 2 * float64(m) / float64(total)
}

func matchingTotal(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

// longestMatch returns the start offsets and length of the longest common
// contiguous block, preferring the earliest occurrence in a, then in b.
func longestMatch(a, b []rune) (int, int, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	bestA, bestB, bestSize := 0, 0, 0
	// lengths[j] holds the match length ending at a[i-1], b[j-1] from the
	// previous row of the DP table.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > bestSize {
					bestSize = curr[j]
					bestA = i - curr[j]
					bestB = j - curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	return bestA, bestB, bestSize
}
