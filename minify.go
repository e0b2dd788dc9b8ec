package htmlsanitizer

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	htmlMinifier *minify.M
	minifierOnce sync.Once
)

func getMinifier() *minify.M {
	minifierOnce.Do(func() {
		htmlMinifier = minify.New()
		htmlMinifier.AddFunc("text/html", html.Minify)
	})
	return htmlMinifier
}

// compactHTML runs an already-sanitized fragment through an HTML minifier.
// It is a pure formatting pass: it runs after Sanitize has finished
// deciding what survives, never before, so it cannot relax the policy. A
// minifier error falls back to returning out unchanged rather than failing
// the whole Sanitize call over a formatting step.
func compactHTML(out string) (string, error) {
	minified, err := getMinifier().String("text/html", out)
	if err != nil {
		return out, nil
	}
	return minified, nil
}
