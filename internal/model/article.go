package model

// ArticleContent is the text extracted from a fetched article page.
type ArticleContent struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
}
