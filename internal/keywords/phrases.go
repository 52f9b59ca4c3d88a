package keywords

import "strings"

// Count is a detected term and how often it was counted.
type Count struct {
	Term  string
	Count int
}

// DetectPhrases reports which dictionary phrases occur in text, in
// dictionary order. Detection is plain substring containment on the
// normalized text, so every detected phrase has a count of 1 regardless of
// how many times it appears.
func DetectPhrases(text string) []Count {
	t := Normalize(text)
	found := []Count{}
	if t == "" {
		return found
	}
	seen := make(map[string]int, len(phraseDictionary))
	for _, p := range phraseDictionary {
		pn := Normalize(p)
		if pn == "" {
			continue
		}
		if !strings.Contains(t, pn) {
			continue
		}
		if i, ok := seen[pn]; ok {
			found[i].Count++
			continue
		}
		seen[pn] = len(found)
		found = append(found, Count{Term: pn, Count: 1})
	}
	return found
}
