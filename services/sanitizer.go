package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user supplied HTML before it is stored.
type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	rich := bluemonday.UGCPolicy()
	rich.RequireNoFollowOnLinks(true)
	rich.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{
		rich:  rich,
		plain: bluemonday.StrictPolicy(),
	}
}

// Rich keeps article formatting (paragraphs, links, images) and strips
// scripts, handlers and styles.
func (s *Sanitizer) Rich(html string) string {
	return strings.TrimSpace(s.rich.Sanitize(html))
}

// Plain strips every tag; used for comments.
func (s *Sanitizer) Plain(text string) string {
	return strings.TrimSpace(s.plain.Sanitize(text))
}
