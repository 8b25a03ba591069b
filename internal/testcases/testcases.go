// Package testcases extracts the association key and the ordered scenario
// descriptions from test specification texts.
package testcases

import (
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/sourcetext"
)

// DefaultSuffix is the test file suffix stripped when deriving a key from a path.
const DefaultSuffix = ".test.ts"

// TestCase is one scenario description, verbatim from the test text.
type TestCase struct {
	Description string
}

// Extraction is the result of scanning one test text.
type Extraction struct {
	Key   string
	Cases []TestCase
}

var (
	describeCall = regexp.MustCompile(`\bdescribe(?:\.only)?\s*\(\s*`)
	itCall       = regexp.MustCompile(`\bit(?:\.only)?\s*\(\s*`)
)

// Extractor scans test texts. Suffix is stripped from base names when a text has
// no describe block.
type Extractor struct {
	suffix string
}

// New returns an extractor for test files ending in suffix.
func New(suffix string) *Extractor {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Extractor{suffix: suffix}
}

// Extract scans text with the default suffix.
func Extract(path, text string) Extraction {
	return New(DefaultSuffix).Extract(path, text)
}

// Extract returns the key and the scenario descriptions of text in source order.
// Calls inside comments are ignored.
func (e *Extractor) Extract(path, text string) Extraction {
	masked := sourcetext.Mask(text)

	ex := Extraction{Key: e.keyFromPath(path)}
	if lits := literalArgs(text, masked, describeCall); len(lits) > 0 && lits[0] != "" {
		ex.Key = lits[0]
	}
	for _, lit := range literalArgs(text, masked, itCall) {
		ex.Cases = append(ex.Cases, TestCase{Description: lit})
	}
	return ex
}

func (e *Extractor) keyFromPath(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, e.suffix) && len(base) > len(e.suffix) {
		return strings.TrimSuffix(base, e.suffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// literalArgs returns the string literal first arguments of every call matched
// by call. Member calls like foo.it( are not test calls and are skipped.
func literalArgs(text, masked string, call *regexp.Regexp) []string {
	var out []string
	for _, m := range call.FindAllStringIndex(masked, -1) {
		if m[0] > 0 && masked[m[0]-1] == '.' {
			continue
		}
		if lit, _, ok := sourcetext.ReadString(text, m[1]); ok {
			out = append(out, lit)
		}
	}
	return out
}
