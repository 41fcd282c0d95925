// internal/matching/stemmer.go
package matching

// Porter stemming, as described in Porter (1980). Tokens shorter than three
// runes pass through untouched.

func porterStem(word string) string {
	if len(word) <= 2 {
		return word
	}
	w := []byte(word)
	w = step1a(w)
	w = step1b(w)
	w = step1c(w)
	w = step2(w)
	w = step3(w)
	w = step4(w)
	w = step5(w)
	return string(w)
}

// isCons reports whether w[i] acts as a consonant. 'y' is a consonant at the
// start of the word or after a vowel.
func isCons(w []byte, i int) bool {
	switch w[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isCons(w, i-1)
	default:
		return true
	}
}

// measure counts VC sequences in w[:end].
func measure(w []byte, end int) int {
	m := 0
	i := 0
	for i < end && isCons(w, i) {
		i++
	}
	for i < end {
		for i < end && !isCons(w, i) {
			i++
		}
		if i >= end {
			break
		}
		m++
		for i < end && isCons(w, i) {
			i++
		}
	}
	return m
}

func hasVowel(w []byte, end int) bool {
	for i := 0; i < end; i++ {
		if !isCons(w, i) {
			return true
		}
	}
	return false
}

func endsDoubleCons(w []byte) bool {
	n := len(w)
	return n >= 2 && w[n-1] == w[n-2] && isCons(w, n-1)
}

// endsCVC reports a consonant-vowel-consonant ending where the final
// consonant is not w, x or y.
func endsCVC(w []byte, end int) bool {
	if end < 3 {
		return false
	}
	if !isCons(w, end-3) || isCons(w, end-2) || !isCons(w, end-1) {
		return false
	}
	c := w[end-1]
	return c != 'w' && c != 'x' && c != 'y'
}

func hasSuffix(w []byte, s string) bool {
	if len(w) < len(s) {
		return false
	}
	return string(w[len(w)-len(s):]) == s
}

// replaceSuffix swaps suffix from for to when the remaining stem has
// measure > minM. Returns the word and whether a rule fired.
func replaceSuffix(w []byte, from, to string, minM int) ([]byte, bool) {
	if !hasSuffix(w, from) {
		return w, false
	}
	stem := len(w) - len(from)
	if measure(w, stem) <= minM {
		return w, true // suffix matched, rule consumed, no change
	}
	return append(w[:stem], to...), true
}

func step1a(w []byte) []byte {
	switch {
	case hasSuffix(w, "sses"):
		return w[:len(w)-2]
	case hasSuffix(w, "ies"):
		return w[:len(w)-2]
	case hasSuffix(w, "ss"):
		return w
	case hasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

func step1b(w []byte) []byte {
	if hasSuffix(w, "eed") {
		if measure(w, len(w)-3) > 0 {
			return w[:len(w)-1]
		}
		return w
	}

	removed := false
	if hasSuffix(w, "ed") && hasVowel(w, len(w)-2) {
		w = w[:len(w)-2]
		removed = true
	} else if hasSuffix(w, "ing") && hasVowel(w, len(w)-3) {
		w = w[:len(w)-3]
		removed = true
	}
	if !removed {
		return w
	}

	switch {
	case hasSuffix(w, "at"), hasSuffix(w, "bl"), hasSuffix(w, "iz"):
		return append(w, 'e')
	case endsDoubleCons(w):
		c := w[len(w)-1]
		if c != 'l' && c != 's' && c != 'z' {
			return w[:len(w)-1]
		}
	case measure(w, len(w)) == 1 && endsCVC(w, len(w)):
		return append(w, 'e')
	}
	return w
}

func step1c(w []byte) []byte {
	if hasSuffix(w, "y") && hasVowel(w, len(w)-1) {
		w[len(w)-1] = 'i'
	}
	return w
}

var step2Rules = []struct{ from, to string }{
	{"ational", "ate"}, {"tional", "tion"}, {"enci", "ence"},
	{"anci", "ance"}, {"izer", "ize"}, {"abli", "able"},
	{"alli", "al"}, {"entli", "ent"}, {"eli", "e"}, {"ousli", "ous"},
	{"ization", "ize"}, {"ation", "ate"}, {"ator", "ate"},
	{"alism", "al"}, {"iveness", "ive"}, {"fulness", "ful"},
	{"ousness", "ous"}, {"aliti", "al"}, {"iviti", "ive"},
	{"biliti", "ble"}, {"logi", "log"},
}

func step2(w []byte) []byte {
	for _, r := range step2Rules {
		if out, ok := replaceSuffix(w, r.from, r.to, 0); ok {
			return out
		}
	}
	return w
}

var step3Rules = []struct{ from, to string }{
	{"icate", "ic"}, {"ative", ""}, {"alize", "al"},
	{"iciti", "ic"}, {"ical", "ic"}, {"ful", ""}, {"ness", ""},
}

func step3(w []byte) []byte {
	for _, r := range step3Rules {
		if out, ok := replaceSuffix(w, r.from, r.to, 0); ok {
			return out
		}
	}
	return w
}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ion", "ou", "ism", "ate", "iti",
	"ous", "ive", "ize",
}

func step4(w []byte) []byte {
	for _, s := range step4Suffixes {
		if !hasSuffix(w, s) {
			continue
		}
		stem := len(w) - len(s)
		if measure(w, stem) <= 1 {
			return w
		}
		if s == "ion" {
			if stem == 0 || (w[stem-1] != 's' && w[stem-1] != 't') {
				return w
			}
		}
		return w[:stem]
	}
	return w
}

func step5(w []byte) []byte {
	// 5a
	if hasSuffix(w, "e") {
		m := measure(w, len(w)-1)
		if m > 1 || (m == 1 && !endsCVC(w, len(w)-1)) {
			w = w[:len(w)-1]
		}
	}
	// 5b
	if hasSuffix(w, "l") && endsDoubleCons(w) && measure(w, len(w)) > 1 {
		w = w[:len(w)-1]
	}
	return w
}
