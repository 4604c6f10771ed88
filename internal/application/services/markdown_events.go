package services

import (
	"regexp"
	"strings"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/infrastructure/clients/firecrawl"
)

// markdownDatePattern finds a month-name date with a day and year,
// optionally followed by a time ("September 15, 2026 at 2:00 PM").
var markdownDatePattern = regexp.MustCompile(
	`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}(\s+at\s+\d{1,2}:\d{2}\s*(AM|PM))?`,
)

var markdownHeadingPattern = regexp.MustCompile(`^(##|###)\s+(.+)$`)

// parseMarkdownEvents is the fallback extraction strategy: a best-effort
// scan of page markdown when structured extraction yields nothing.
// Level-2/3 headings start candidate events, following lines accumulate
// as description, and the first recognizable month-day-year substring
// becomes the start date. Candidates without a parseable date are
// dropped silently.
func parseMarkdownEvents(markdown string, source entities.EventSource) []firecrawl.ExtractedEvent {
	var events []firecrawl.ExtractedEvent
	var current *firecrawl.ExtractedEvent
	var descLines []string

	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.TrimSpace(strings.Join(descLines, " "))
		if current.StartDate != "" {
			events = append(events, *current)
		}
		current = nil
		descLines = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := markdownHeadingPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			title := strings.TrimSpace(m[2])
			if title == "" {
				continue
			}
			if source.HeadingSelector != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(source.HeadingSelector)) {
				continue
			}
			current = &firecrawl.ExtractedEvent{Title: title}
			continue
		}

		if current == nil || trimmed == "" {
			continue
		}

		if current.StartDate == "" {
			if match := markdownDatePattern.FindString(trimmed); match != "" {
				if _, ok := parseEventDate(match); ok {
					current.StartDate = match
				}
			}
		}
		descLines = append(descLines, trimmed)
	}
	flush()

	return events
}
