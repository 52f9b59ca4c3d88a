package textsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MinJobTextChars is the shortest job description worth analyzing.
	MinJobTextChars = 50

	minContainerChars = 200
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var ErrJobTextTooShort = errors.New("job description too short")

// jobContainerSelectors are tried in order; the first container with enough
// text is taken as the job description.
var jobContainerSelectors = []string{
	"[data-test='job-description']",
	".job-description",
	".description__text",
	".show-more-less-html__markup",
	"#jobDescriptionText",
	"article",
	"main",
}

// ValidateJobText returns the trimmed job text or ErrJobTextTooShort.
func ValidateJobText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinJobTextChars {
		return "", fmt.Errorf("%w: need at least %d characters", ErrJobTextTooShort, MinJobTextChars)
	}
	return text, nil
}

// FetchJobText downloads a job posting page and returns its description text.
func FetchJobText(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch job page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch job page: status %d", resp.StatusCode)
	}
	return JobTextFromHTML(io.LimitReader(resp.Body, 4*1024*1024))
}

// JobTextFromHTML picks the job description out of a posting page, falling
// back to the whole body text.
func JobTextFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse job page: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	for _, sel := range jobContainerSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if len(text) > minContainerChars {
			return text, nil
		}
	}
	return strings.TrimSpace(doc.Find("body").Text()), nil
}
