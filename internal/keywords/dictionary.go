package keywords

// stopwords are dropped by Tokenize. Besides common English words the set
// holds job-posting noise ("role", "team", "experience", ...).
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "else": {},
	"when": {}, "while": {}, "of": {}, "to": {}, "in": {}, "on": {}, "for": {}, "with": {}, "at": {},
	"by": {}, "from": {}, "as": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "it": {}, "this": {}, "that": {}, "these": {}, "those": {}, "you": {}, "your": {},
	"we": {}, "our": {}, "they": {}, "their": {}, "i": {}, "me": {}, "my": {}, "us": {}, "will": {},
	"can": {}, "may": {}, "might": {}, "should": {}, "must": {}, "not": {}, "no": {}, "yes": {},
	"do": {}, "does": {}, "did": {}, "done": {}, "up": {}, "down": {}, "into": {}, "out": {},
	"over": {}, "under": {}, "more": {}, "most": {}, "less": {}, "least": {}, "very": {}, "also": {},
	"than": {}, "such": {}, "etc": {}, "about": {}, "across": {}, "after": {}, "before": {},
	"during": {}, "within": {}, "without": {}, "per": {}, "each": {}, "every": {}, "today": {},
	"role": {}, "work": {}, "team": {}, "experience": {}, "including": {}, "build": {},
	"building": {}, "support": {}, "mission": {},
}

// shortTechTokens survive the minimum length filter.
var shortTechTokens = map[string]struct{}{
	"c":  {},
	"r":  {},
	"go": {},
}

// phraseDictionary is matched against the whole normalized text, so entries
// may contain spaces and symbols. Order matters: detected phrases are
// reported in this order.
var phraseDictionary = [...]string{
	"unit testing",
	"test driven development",
	"tdd",
	"ci/cd",
	"continuous integration",
	"continuous deployment",
	"rest api",
	"api design",
	"microservices",
	"data pipeline",
	"data pipelines",
	"machine learning",
	"deep learning",
	"real time",
	"real-time",
	"linux",
	"docker",
	"kubernetes",
	"aws",
	"gcp",
	"azure",
	"postgresql",
	"mysql",
	"nosql",
	"javascript",
	"typescript",
	"python",
	"c++",
	"c#",
	"java",
	"git",
	"fastapi",
	"flask",
	"react",
	"node.js",
	"websockets",
	"tcp",
	"udp",
	"data structures",
	"algorithms",
}

// IsStopword reports whether w (already normalized) is in the stopword set.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Phrases returns a copy of the phrase dictionary in matching order.
func Phrases() []string {
	out := make([]string, len(phraseDictionary))
	copy(out, phraseDictionary[:])
	return out
}
