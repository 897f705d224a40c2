// Package usecase contains the business logic of the application.
package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/wakabox/internal/domain"
)

const (
	// GraphLength is the number of glyphs in every language bar.
	GraphLength = 20
	// MaxLanguages caps the number of language lines in a report.
	MaxLanguages = 5

	BlockGlyph = "█"
	EmptyGlyph = "░"

	timestampLayout = "2006-01-02T15:04:05Z"
	titleLayout     = "2 January 2006"
)

// Format renders stats as the plain-text report published to the gist.
// It is pure: the same stats always produce the same report.
func Format(s *domain.Stats) (string, error) {
	if s == nil {
		return "", fmt.Errorf("%w: no stats to format", domain.ErrFormat)
	}
	if err := checkComplete(s); err != nil {
		return "", err
	}

	title, err := MakeTitle(s.Start, s.End)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total Time: %s\n\n", s.HumanReadableTotal)

	for _, lang := range TopLanguages(s.Languages) {
		fmt.Fprintf(&b, "%-10s %-14s %s %.2f%%\n", lang.Name, lang.Text, MakeGraph(lang.Percent, GraphLength), lang.Percent)
	}

	return strings.TrimSpace(b.String()), nil
}

// MakeTitle builds the "From: ... - To: ..." line from two UTC timestamps.
func MakeTitle(start, end string) (string, error) {
	startDate, err := parseTimestamp(start)
	if err != nil {
		return "", err
	}
	endDate, err := parseTimestamp(end)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("From: %s - To: %s", startDate.Format(titleLayout), endDate.Format(titleLayout)), nil
}

// MakeGraph draws percent (0-100) as a bar of length glyphs.
func MakeGraph(percent float64, length int) string {
	filled := int(math.Floor(float64(length) * percent / 100))
	filled = max(0, min(filled, length))
	return strings.Repeat(BlockGlyph, filled) + strings.Repeat(EmptyGlyph, length-filled)
}

// TopLanguages returns at most MaxLanguages entries, keeping the reported order.
func TopLanguages(languages []domain.Language) []domain.Language {
	if len(languages) > MaxLanguages {
		return languages[:MaxLanguages]
	}
	return languages
}

// ShownShare is the percentage of total time covered by the languages in the report.
func ShownShare(languages []domain.Language) (float64, error) {
	top := TopLanguages(languages)
	if len(top) == 0 {
		return 0, nil
	}
	percents := make(stats.Float64Data, 0, len(top))
	for _, lang := range top {
		percents = append(percents, lang.Percent)
	}
	return stats.Sum(percents)
}

// checkComplete rejects payloads with absent keys. Only the rendered languages are checked.
func checkComplete(s *domain.Stats) error {
	if missing := s.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: stats payload is missing %s", domain.ErrFormat, strings.Join(missing, ", "))
	}
	for i, lang := range TopLanguages(s.Languages) {
		if missing := lang.MissingFields(); len(missing) > 0 {
			return fmt.Errorf("%w: language %d is missing %s", domain.ErrFormat, i, strings.Join(missing, ", "))
		}
	}
	return nil
}

func parseTimestamp(value string) (time.Time, error) {
	// time.Parse tolerates fractional seconds; the layout length pins the exact shape.
	if len(value) != len(timestampLayout) {
		return time.Time{}, fmt.Errorf("%w: timestamp %q does not match %s", domain.ErrFormat, value, timestampLayout)
	}
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q does not match %s: %w", domain.ErrFormat, value, timestampLayout, err)
	}
	return t, nil
}
