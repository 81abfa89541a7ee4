package extract

import (
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"repurpose/internal/model"
)

// Strategy names accepted by ForName.
const (
	StrategyRegex       = "regex"
	StrategyReadability = "readability"
)

// Func extracts article content from the HTML served at pageURL.
type Func func(html string, pageURL *url.URL) (model.ArticleContent, error)

// Regex adapts Extract to Func. It never fails.
func Regex(html string, _ *url.URL) (model.ArticleContent, error) {
	return Extract(html), nil
}

// Readability extracts the main article with go-readability and then applies
// the same normalisation, truncation and word count as Extract. The title falls
// back to Title when readability finds none.
func Readability(html string, pageURL *url.URL) (model.ArticleContent, error) {
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return model.ArticleContent{}, fmt.Errorf("readability parse: %w", err)
	}
	text := article.TextContent
	if strings.TrimSpace(text) == "" {
		return model.ArticleContent{}, fmt.Errorf("readability found no article text")
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = Title(html)
	}
	return Finish(title, text), nil
}

// ForName returns the extraction strategy for name. Unknown names are an error.
func ForName(name string) (Func, error) {
	switch name {
	case "", StrategyRegex:
		return Regex, nil
	case StrategyReadability:
		return Readability, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q", name)
	}
}
