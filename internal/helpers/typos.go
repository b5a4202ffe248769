package helpers

// Suggests what a misspelled name was probably meant to be. A suggestion is
// one edit away from the typo: a character was added, removed, or replaced,
// or two neighboring characters were swapped. Names of three characters or
// fewer are never suggested since almost anything is one edit away from them.
type TypoDetector struct {
	valid [][]rune
}

func MakeTypoDetector(valid []string) TypoDetector {
	detector := TypoDetector{}
	for _, name := range valid {
		if runes := []rune(name); len(runes) > 3 {
			detector.valid = append(detector.valid, runes)
		}
	}
	return detector
}

// Names are checked in the order they were given to "MakeTypoDetector"
func (detector TypoDetector) MaybeCorrectTypo(typo string) (string, bool) {
	runes := []rune(typo)
	for _, name := range detector.valid {
		if isOneEditAway(runes, name) {
			return string(name), true
		}
	}
	return "", false
}

func isOneEditAway(a []rune, b []rune) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > 1 {
		return false
	}

	// Skip the common prefix
	i := 0
	for i < len(a) && a[i] == b[i] {
		i++
	}

	if len(a) < len(b) {
		return string(a[i:]) == string(b[i+1:])
	}
	if i == len(a) {
		// Identical names aren't typos
		return false
	}
	if string(a[i+1:]) == string(b[i+1:]) {
		return true
	}
	return i+1 < len(a) && a[i] == b[i+1] && a[i+1] == b[i] && string(a[i+2:]) == string(b[i+2:])
}
