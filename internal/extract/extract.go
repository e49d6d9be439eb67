// Package extract converts article HTML into normalized plain text suitable
// for prompting.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text returns the visible text of the given HTML with script and style
// subtrees removed and all whitespace runs collapsed to single spaces.
// Malformed markup is parsed permissively and never causes an error; the
// result is best-effort text, empty only when the source had none.
func Text(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// net/html parses almost anything; if it still fails, fall back
		// to treating the input as text.
		return collapse(rawHTML)
	}

	doc.Find("script, style").Remove()
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
