package keywords

import "strings"

// Normalize lowercases s, replaces every rune outside [a-z0-9#+./ -] with a
// space, collapses runs of spaces and trims the result. Normalize is
// idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(lower))
	pendingSpace := false
	for _, r := range lower {
		if !allowedRune(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '#', r == '+', r == '.', r == '/', r == '-':
		return true
	}
	return false
}

// Tokenize normalizes s and returns its candidate keyword tokens in source
// order. Duplicates are kept so callers can count them.
func Tokenize(s string) []string {
	t := Normalize(s)
	if t == "" {
		return []string{}
	}

	raw := strings.Split(t, " ")
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w == "" {
			continue
		}
		_, short := shortTechTokens[w]
		if !short && len(w) < 2 {
			continue
		}
		if IsStopword(w) {
			continue
		}
		if isNumeric(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}

func isNumeric(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < '0' || w[i] > '9' {
			return false
		}
	}
	return true
}

// CountWords returns how many times each token occurs.
func CountWords(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, w := range tokens {
		counts[w]++
	}
	return counts
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
