package extract

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeRecognizer returns canned text so extractor tests exercise the
// parsing stages without a real OCR engine.
type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) RecognizeText(_ context.Context, _ []byte) (string, error) {
	return f.text, f.err
}

// fakeVerifier returns a canned verification response.
type fakeVerifier struct {
	response map[string]string
	err      error
}

func (f *fakeVerifier) VerifyPassport(_ context.Context, _, _ []byte) (map[string]string, error) {
	return f.response, f.err
}

var errEngine = errors.New("engine unavailable")

func TestCascadeFirstMatchWins(t *testing.T) {
	c := cascade{
		{re: regexp.MustCompile(`primary:(\w+)`)},
		{re: regexp.MustCompile(`fallback:(\w+)`)},
	}

	v, ok := c.first("fallback:second primary:first")
	assert.True(t, ok)
	// Pattern priority beats document position.
	assert.Equal(t, "first", v)
}

func TestCascadeFallsThroughOnReject(t *testing.T) {
	c := cascade{
		{
			re:     regexp.MustCompile(`(\w+)!`),
			reject: func(c candidate, _ string) bool { return c.value == "bad" },
		},
	}

	v, ok := c.first("bad! good!")
	assert.True(t, ok)
	assert.Equal(t, "good", v)
}

func TestCascadeNoMatch(t *testing.T) {
	c := cascade{{re: regexp.MustCompile(`never:(\w+)`)}}
	_, ok := c.first("nothing here")
	assert.False(t, ok)
}

func TestCollectOrderedMergesPatternsInDocumentOrder(t *testing.T) {
	text := "b:222 a:111 b:333"
	matches := collectOrdered(text,
		regexp.MustCompile(`a:(\d+)`),
		regexp.MustCompile(`b:(\d+)`),
	)

	values := make([]string, len(matches))
	for i, m := range matches {
		values[i] = m.value()
	}
	assert.Equal(t, []string{"222", "111", "333"}, values)
}

func TestSetPositional(t *testing.T) {
	text := "x:one x:two x:three"
	matches := collectOrdered(text, regexp.MustCompile(`x:(\w+)`))

	fields := make(map[string]string)
	setPositional(fields, matches, "first", "second")
	assert.Equal(t, "one", fields["first"])
	assert.Equal(t, "two", fields["second"])
	assert.NotContains(t, fields, "three")
}

func TestSetPositionalSingleMatch(t *testing.T) {
	matches := collectOrdered("x:only", regexp.MustCompile(`x:(\w+)`))

	fields := make(map[string]string)
	setPositional(fields, matches, "first", "second")
	assert.Equal(t, "only", fields["first"])
	assert.NotContains(t, fields, "second")
}

func TestCountKeywordHitsIsDistinct(t *testing.T) {
	text := "flight flight FLIGHT boarding"
	assert.Equal(t, 2, countKeywordHits(text, []string{"flight", "boarding", "gate"}))
}

func TestFollowedBySkipsSeparators(t *testing.T) {
	text := "ABC123 : hrs later"
	c := candidate{end: 6}
	assert.True(t, followedBy(c, text, "hrs"))
	assert.False(t, followedBy(c, text, "am"))
}
