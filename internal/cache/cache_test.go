package cache

import (
	"context"
	"testing"
	"time"

	"github.com/muhammadolammi/keywordmatch/internal/keywords"
	"github.com/stretchr/testify/assert"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, "", time.Hour)
	assert.False(t, c.Enabled())

	ws := keywords.ExtractJobKeywords("Go and Docker")
	c.Set(ctx, "kw:x", ws)
	_, ok := c.Get(ctx, "kw:x")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestNilCache(t *testing.T) {
	var c *KeywordCache
	assert.False(t, c.Enabled())
	_, ok := c.Get(context.Background(), "kw:x")
	assert.False(t, ok)
}

func TestInvalidURLDisablesCache(t *testing.T) {
	c := New(context.Background(), "not a url", time.Hour)
	assert.False(t, c.Enabled())
}

func TestKey(t *testing.T) {
	a := Key("Go developer", keywords.DefaultLimits)
	assert.Equal(t, a, Key("Go developer", keywords.DefaultLimits))
	assert.NotEqual(t, a, Key("Go developer ", keywords.DefaultLimits))
	assert.NotEqual(t, a, Key("Go developer", keywords.Limits{JobText: 10}))
	assert.Len(t, a, len(keyPrefix)+24)
}

func TestJobKeywordsWithoutRedis(t *testing.T) {
	m := keywords.NewMatcher(keywords.DefaultLimits)
	job := "Python and Kubernetes"
	got := New(context.Background(), "", time.Hour).JobKeywords(context.Background(), m, job)
	assert.Equal(t, m.ExtractJobKeywords(job).Entries(), got.Entries())
}
