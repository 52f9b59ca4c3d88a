// Package keywords extracts weighted keywords from a job description and
// scores how many of them a resume contains.
//
// Everything in this package is pure: functions only read their arguments,
// never fail, and are safe to call from any number of goroutines.
package keywords

import (
	"math"
	"sort"
	"strings"
)

const (
	// DefaultJobTextLimit bounds how much of a job description is analyzed.
	DefaultJobTextLimit = 20000
	// DefaultResumeTextLimit bounds how much of a resume is scanned.
	DefaultResumeTextLimit = 40000

	// TopN is the length cap of Result.FoundTop and Result.MissingTop.
	TopN = 15

	wordCountCap   = 3
	wordWeight     = 1.0
	phraseCountCap = 2
	phraseWeight   = 3.0
)

// Limits caps the input sizes, in characters (runes).
type Limits struct {
	JobText    int `json:"job_text_limit"`
	ResumeText int `json:"resume_text_limit"`
}

// DefaultLimits is {JobText: 20000, ResumeText: 40000}.
var DefaultLimits = Limits{
	JobText:    DefaultJobTextLimit,
	ResumeText: DefaultResumeTextLimit,
}

func (l Limits) withDefaults() Limits {
	if l.JobText <= 0 {
		l.JobText = DefaultJobTextLimit
	}
	if l.ResumeText <= 0 {
		l.ResumeText = DefaultResumeTextLimit
	}
	return l
}

// Result is the outcome of scoring one resume.
type Result struct {
	Score      int       `json:"score"`
	MissingTop []Keyword `json:"missing_top"`
	FoundTop   []Keyword `json:"found_top"`
}

// MissingText joins the missing keyword names with newlines, ready to paste.
func (r Result) MissingText() string {
	return strings.Join(Terms(r.MissingTop), "\n")
}

// Matcher runs extraction and scoring with a fixed set of limits.
type Matcher struct {
	limits Limits
}

// NewMatcher returns a Matcher. Non-positive limits fall back to the defaults.
func NewMatcher(limits Limits) *Matcher {
	return &Matcher{limits: limits.withDefaults()}
}

// Limits returns the effective limits.
func (m *Matcher) Limits() Limits {
	return m.limits
}

var defaultMatcher = NewMatcher(DefaultLimits)

// ExtractJobKeywords builds the weighted keyword map of a job description
// using DefaultLimits.
func ExtractJobKeywords(jobText string) *Weights {
	return defaultMatcher.ExtractJobKeywords(jobText)
}

// ScoreMatch scores resumeText against weights using DefaultLimits.
func ScoreMatch(weights *Weights, resumeText string) Result {
	return defaultMatcher.ScoreMatch(weights, resumeText)
}

// ExtractJobKeywords builds the weighted keyword map of a job description.
//
// Each token weighs min(3, count); each detected phrase weighs
// min(2, count)*3. A token equal to a phrase gets both contributions.
// Keys are ordered tokens first (by first occurrence), then phrases in
// dictionary order.
func (m *Matcher) ExtractJobKeywords(jobText string) *Weights {
	limited := truncateRunes(jobText, m.limits.JobText)

	tokens := Tokenize(limited)
	counts := CountWords(tokens)
	phrases := DetectPhrases(limited)

	combined := NewWeights()
	for _, w := range tokens {
		c, ok := counts[w]
		if !ok {
			continue
		}
		delete(counts, w)
		combined.Add(w, float64(min(wordCountCap, c))*wordWeight)
	}
	for _, p := range phrases {
		combined.Add(p.Term, float64(min(phraseCountCap, p.Count))*phraseWeight)
	}
	return combined
}

// ScoreMatch partitions the keywords of weights into found and missing for
// resumeText. A keyword with a space is a phrase and must appear as a
// substring of the normalized resume; any other keyword must be one of the
// resume's tokens. Score is the rounded percentage of matched weight.
//
// Both lists are sorted by weight, heaviest first; equal weights keep the
// insertion order of weights. Each list holds at most TopN entries.
func (m *Matcher) ScoreMatch(weights *Weights, resumeText string) Result {
	limited := truncateRunes(resumeText, m.limits.ResumeText)

	resumeNorm := Normalize(limited)
	resumeSet := make(map[string]struct{})
	for _, w := range Tokenize(limited) {
		resumeSet[w] = struct{}{}
	}

	total := weights.Total()
	if total < 1 {
		total = 1
	}

	var matched float64
	found := []Keyword{}
	missing := []Keyword{}
	for _, kw := range weights.Entries() {
		var hit bool
		if strings.Contains(kw.Term, " ") {
			hit = strings.Contains(resumeNorm, kw.Term)
		} else {
			_, hit = resumeSet[kw.Term]
		}

		if hit {
			matched += kw.Weight
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	sortByWeight(found)
	sortByWeight(missing)

	return Result{
		Score:      int(math.Round(matched / total * 100)),
		MissingTop: top(missing, TopN),
		FoundTop:   top(found, TopN),
	}
}

// Analyze extracts the keywords of jobText and scores resumeText against
// them.
func (m *Matcher) Analyze(jobText, resumeText string) Result {
	return m.ScoreMatch(m.ExtractJobKeywords(jobText), resumeText)
}

func sortByWeight(ks []Keyword) {
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].Weight > ks[j].Weight
	})
}

func top(ks []Keyword, n int) []Keyword {
	if len(ks) > n {
		return ks[:n]
	}
	return ks
}
