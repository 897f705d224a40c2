// Package domain contains the core data structures and domain logic for the application.
package domain

import "encoding/json"

// Stats is the coding activity summary returned by WakaTime for one time range.
// It is the core domain entity of this application.
type Stats struct {
	Start              string     `json:"start"`
	End                string     `json:"end"`
	HumanReadableTotal string     `json:"human_readable_total"`
	Languages          []Language `json:"languages"`

	// missing lists the JSON keys that were absent or null when decoding.
	missing []string
}

// Language holds the time spent in a single language, as reported by WakaTime.
type Language struct {
	Name    string  `json:"name"`
	Text    string  `json:"text"`
	Percent float64 `json:"percent"`

	missing []string
}

// MissingFields returns the keys that were absent or null in the decoded payload.
// Values built in code report none.
func (s *Stats) MissingFields() []string {
	return s.missing
}

// MissingFields returns the keys that were absent or null in the decoded entry.
func (l *Language) MissingFields() []string {
	return l.missing
}

func (s *Stats) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start              *string    `json:"start"`
		End                *string    `json:"end"`
		HumanReadableTotal *string    `json:"human_readable_total"`
		Languages          []Language `json:"languages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Stats{Languages: raw.Languages}
	s.Start = takeString(raw.Start, "start", &s.missing)
	s.End = takeString(raw.End, "end", &s.missing)
	s.HumanReadableTotal = takeString(raw.HumanReadableTotal, "human_readable_total", &s.missing)
	return nil
}

func (l *Language) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    *string  `json:"name"`
		Text    *string  `json:"text"`
		Percent *float64 `json:"percent"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = Language{}
	l.Name = takeString(raw.Name, "name", &l.missing)
	l.Text = takeString(raw.Text, "text", &l.missing)
	if raw.Percent == nil {
		l.missing = append(l.missing, "percent")
	} else {
		l.Percent = *raw.Percent
	}
	return nil
}

func takeString(v *string, key string, missing *[]string) string {
	if v == nil {
		*missing = append(*missing, key)
		return ""
	}
	return *v
}
