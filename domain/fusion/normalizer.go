// Package fusion holds the pure stages of the fusion pipeline: text
// normalization, entity extraction, enrichment, deduplication, and relation
// extraction.
package fusion

import (
	"strings"

	"github.com/aoidb/aoi/domain/event"
)

// Normalize joins an event's title and body into one text blob for
// extraction. Missing parts are skipped; the result is trimmed.
func Normalize(e event.Event) string {
	return NormalizeText(e.Title(), e.Body().Text())
}

// NormalizeText joins title and body with a single space and trims the result.
func NormalizeText(title, body string) string {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	switch {
	case title == "":
		return body
	case body == "":
		return title
	default:
		return title + " " + body
	}
}
