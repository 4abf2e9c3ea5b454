package enrichment

import (
	"strings"
	"time"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

// Layouts are tried in order. The first matches the feed's
// "YYYY-MM-DD HH:MM:SS" shape; the rest cover the ISO-8601 forms with either
// a "T" or a space separator and colon or compact offsets.
var publishDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	domain.DateLayout,
}

// DecomposeDate parses a free-form publish date. Unparseable or empty input
// yields a PublishDate with Valid set to false; it never fails. Timestamps
// without an offset are taken as UTC, and the calendar fields are reported
// in the parsed offset.
func DecomposeDate(raw string) domain.PublishDate {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.PublishDate{}
	}

	for _, layout := range publishDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}

		return domain.PublishDate{
			Valid:    true,
			Date:     time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Datetime: t,
			Year:     t.Year(),
			Month:    int(t.Month()),
			Day:      t.Day(),
			Hour:     t.Hour(),
		}
	}

	return domain.PublishDate{}
}
