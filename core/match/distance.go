// Package match joins register companies with external legal entity
// identifier (LEI) records by postal code blocking and a weighted name
// distance.
package match

// editWeight prices one edited character. Punctuation, spacing and other
// decoration are free, so names differing only in formatting still count as
// equal. Digits are nearly prohibitive: "Straße 1" and "Straße 2" are
// different companies, not spelling variants.
func editWeight(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return 6
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return 1
	default:
		return 0
	}
}

// WeightedEditDistance is a Levenshtein distance with per-character weights.
// Insertions and deletions cost the weight of the edited character, a
// substitution the heavier of the two. Symmetric in its arguments.
func WeightedEditDistance(a, b string) int {
	left := []rune(a)
	right := []rune(b)

	previous := make([]int, len(right)+1)
	current := make([]int, len(right)+1)
	for j := 1; j <= len(right); j++ {
		previous[j] = previous[j-1] + editWeight(right[j-1])
	}

	for i := 1; i <= len(left); i++ {
		current[0] = previous[0] + editWeight(left[i-1])
		for j := 1; j <= len(right); j++ {
			if left[i-1] == right[j-1] {
				current[j] = previous[j-1]
				continue
			}
			substitute := previous[j-1] + maxWeight(left[i-1], right[j-1])
			remove := previous[j] + editWeight(left[i-1])
			insert := current[j-1] + editWeight(right[j-1])
			current[j] = min3(substitute, remove, insert)
		}
		previous, current = current, previous
	}
	return previous[len(right)]
}

func maxWeight(a, b rune) int {
	wa, wb := editWeight(a), editWeight(b)
	if wa > wb {
		return wa
	}
	return wb
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
