package utils

// EstimateTokens approximates token counts: two ASCII characters or one
// non-ASCII character per token, never less than one for non-empty input.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	asciiChars := 0
	nonASCIIChars := 0
	for _, r := range text {
		if r < 128 {
			asciiChars++
		} else {
			nonASCIIChars++
		}
	}

	total := (asciiChars+1)/2 + nonASCIIChars
	if total <= 0 {
		return 1
	}
	return total
}
