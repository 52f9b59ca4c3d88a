package keywords

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPhrases(t *testing.T) {
	got := DetectPhrases("We use CI/CD and REST API daily")
	assert.Equal(t, []Count{{Term: "ci/cd", Count: 1}, {Term: "rest api", Count: 1}}, got)
}

func TestDetectPhrasesContainmentOnly(t *testing.T) {
	// Repeats are not counted: containment yields 1.
	got := DetectPhrases("Docker docker DOCKER")
	assert.Equal(t, []Count{{Term: "docker", Count: 1}}, got)

	assert.Empty(t, DetectPhrases(""))
	assert.Empty(t, DetectPhrases("nothing relevant here"))
}

func TestDetectPhrasesDictionaryOrder(t *testing.T) {
	got := DetectPhrases("python then kubernetes then linux")
	assert.Equal(t, []string{"linux", "kubernetes", "python"}, countTerms(got))
}

func countTerms(cs []Count) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Term)
	}
	return out
}

func TestExtractJobKeywordsWordCap(t *testing.T) {
	ws := ExtractJobKeywords("Golang golang GOLANG golang")
	w, ok := ws.Get("golang")
	require.True(t, ok)
	assert.Equal(t, 3.0, w)
}

func TestExtractJobKeywordsTokenAndPhraseAccumulate(t *testing.T) {
	// "python" is both a token (capped at 3) and a dictionary phrase (3).
	ws := ExtractJobKeywords("Python python PYTHON python")
	w, ok := ws.Get("python")
	require.True(t, ok)
	assert.Equal(t, 6.0, w)
	assert.Equal(t, 1, ws.Len())
}

func TestExtractJobKeywordsPhraseWeight(t *testing.T) {
	ws := ExtractJobKeywords("Machine learning and more machine learning work")

	w, ok := ws.Get("machine learning")
	require.True(t, ok)
	assert.Equal(t, 3.0, w)

	w, _ = ws.Get("machine")
	assert.Equal(t, 2.0, w)
	w, _ = ws.Get("learning")
	assert.Equal(t, 2.0, w)

	assert.Equal(t, []string{"machine", "learning", "machine learning"}, Terms(ws.Entries()))
}

func TestExtractJobKeywordsEmpty(t *testing.T) {
	ws := ExtractJobKeywords("")
	assert.Equal(t, 0, ws.Len())
	assert.Equal(t, 0, ExtractJobKeywords("the and of").Len())
}

func TestExtractJobKeywordsTruncatesJobText(t *testing.T) {
	m := NewMatcher(Limits{JobText: 10})
	ws := m.ExtractJobKeywords("kubernetes docker")

	w, ok := ws.Get("kubernetes")
	require.True(t, ok)
	assert.Equal(t, 4.0, w)
	_, ok = ws.Get("docker")
	assert.False(t, ok)
}

func TestScoreMatchEmptyWeights(t *testing.T) {
	res := ScoreMatch(NewWeights(), "Python Docker Kubernetes")
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.MissingTop)
	assert.Empty(t, res.FoundTop)

	res = ScoreMatch(nil, "")
	assert.Equal(t, 0, res.Score)
	assert.NotNil(t, res.MissingTop)
	assert.NotNil(t, res.FoundTop)
}

func TestScoreMatchVerbatimResume(t *testing.T) {
	job := "Senior Go engineer: Kubernetes, Docker, PostgreSQL, REST API design and CI/CD pipelines."
	ws := ExtractJobKeywords(job)
	require.Greater(t, ws.Len(), 0)

	res := ScoreMatch(ws, job)
	assert.Equal(t, 100, res.Score)
	assert.Empty(t, res.MissingTop)
}

func TestScoreMatchEndToEnd(t *testing.T) {
	job := "We need strong Python and REST API experience with Docker and Kubernetes"
	resume := "I have 5 years of Python and Docker experience"

	res := ScoreMatch(ExtractJobKeywords(job), resume)

	found := Terms(res.FoundTop)
	missing := Terms(res.MissingTop)
	assert.Contains(t, found, "python")
	assert.Contains(t, found, "docker")
	assert.Contains(t, missing, "rest api")
	assert.Contains(t, missing, "kubernetes")
	assert.Greater(t, res.Score, 0)
	assert.Less(t, res.Score, 100)
	// python 4 + docker 4 out of 19.
	assert.Equal(t, 42, res.Score)
}

func TestScoreMatchPhraseNeedsSubstring(t *testing.T) {
	ws := NewWeights()
	ws.Add("rest api", 3)
	ws.Add("rest", 1)

	res := ScoreMatch(ws, "restful apis and REST-API gateways")
	assert.Equal(t, []string{"rest api", "rest"}, Terms(res.MissingTop))
	assert.Empty(t, res.FoundTop)

	res = ScoreMatch(ws, "Built a REST  API.")
	assert.Equal(t, 100, res.Score)
}

func TestScoreMatchSortedAndStable(t *testing.T) {
	ws := ExtractJobKeywords("zeta alpha alpha beta beta beta omega")
	res := ScoreMatch(ws, "")

	assert.Equal(t, []Keyword{
		{Term: "beta", Weight: 3},
		{Term: "alpha", Weight: 2},
		{Term: "zeta", Weight: 1},
		{Term: "omega", Weight: 1},
	}, res.MissingTop)
}

func TestScoreMatchTruncatesLists(t *testing.T) {
	var words []string
	for i := 1; i <= 20; i++ {
		words = append(words, fmt.Sprintf("kw%02d", i))
	}
	job := strings.Join(words, " ")
	ws := ExtractJobKeywords(job)
	require.Equal(t, 20, ws.Len())

	res := ScoreMatch(ws, "")
	assert.Len(t, res.MissingTop, TopN)
	assert.Equal(t, "kw01", res.MissingTop[0].Term)
	assert.Equal(t, "kw15", res.MissingTop[TopN-1].Term)

	res = ScoreMatch(ws, job)
	assert.Len(t, res.FoundTop, TopN)
	assert.Empty(t, res.MissingTop)
	assert.Equal(t, 100, res.Score)
}

func TestScoreMatchTruncatesResume(t *testing.T) {
	ws := NewWeights()
	ws.Add("python", 1)

	m := NewMatcher(Limits{ResumeText: 6})
	assert.Equal(t, 100, m.ScoreMatch(ws, "python rocks").Score)
	assert.Equal(t, 0, m.ScoreMatch(ws, "I use python").Score)
}

func TestScoreMatchPartition(t *testing.T) {
	job := "Go services on Linux with gRPC, Redis, Kafka, Terraform and AWS. Python is a plus."
	resume := "Wrote Go and Python services on AWS with Redis"
	ws := ExtractJobKeywords(job)
	res := ScoreMatch(ws, resume)

	seen := map[string]int{}
	for _, k := range append(append([]Keyword{}, res.FoundTop...), res.MissingTop...) {
		seen[k.Term]++
	}
	assert.Len(t, seen, ws.Len())
	for term, n := range seen {
		assert.Equal(t, 1, n, term)
	}
}

func TestResultMissingText(t *testing.T) {
	res := Result{MissingTop: []Keyword{{Term: "kubernetes", Weight: 4}, {Term: "rest api", Weight: 3}}}
	assert.Equal(t, "kubernetes\nrest api", res.MissingText())
	assert.Equal(t, "", Result{}.MissingText())
}

func TestNewMatcherDefaults(t *testing.T) {
	assert.Equal(t, DefaultLimits, NewMatcher(Limits{}).Limits())
	assert.Equal(t, Limits{JobText: 5, ResumeText: DefaultResumeTextLimit}, NewMatcher(Limits{JobText: 5, ResumeText: -1}).Limits())
}

func TestWeightsAddIgnoresNonPositive(t *testing.T) {
	var ws Weights
	ws.Add("go", 0)
	ws.Add("go", -1)
	ws.Add("", 2)
	assert.Equal(t, 0, ws.Len())

	ws.Add("go", 1)
	ws.Add("go", 2)
	w, _ := ws.Get("go")
	assert.Equal(t, 3.0, w)
	assert.Equal(t, 3.0, ws.Total())
}

func TestWeightsJSONKeepsOrder(t *testing.T) {
	ws := ExtractJobKeywords("zeta alpha docker")
	data, err := json.Marshal(ws)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"keyword":"zeta","weight":1},{"keyword":"alpha","weight":1},{"keyword":"docker","weight":4}]`, string(data))

	decoded := NewWeights()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, ws.Entries(), decoded.Entries())
}

func TestAnalyzeConcurrent(t *testing.T) {
	m := NewMatcher(DefaultLimits)
	job := "We need strong Python and REST API experience with Docker and Kubernetes"
	resume := "I have 5 years of Python and Docker experience"
	want := m.Analyze(job, resume)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, m.Analyze(job, resume))
		}()
	}
	wg.Wait()
}
