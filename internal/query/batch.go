package query

// Batch splits terms into chunks whose combined term length stays within
// maxChars, so a very large OR-expression never travels as one request.
// A term longer than the budget still gets its own single-element chunk;
// chunking preserves term order, and callers concatenate chunk results.
func Batch(terms []string, maxChars int) [][]string {
	if len(terms) == 0 {
		return nil
	}
	if maxChars < 1 {
		maxChars = 1
	}

	var batches [][]string
	var current []string
	used := 0
	for _, term := range terms {
		// Account for the quoting and OR separator each phrase costs.
		cost := len(term) + 8
		if len(current) > 0 && used+cost > maxChars {
			batches = append(batches, current)
			current = nil
			used = 0
		}
		current = append(current, term)
		used += cost
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
