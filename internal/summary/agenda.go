package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// summaryLabels is the display order of a structured agenda summary.
var summaryLabels = []string{"who", "what", "when", "where", "why", "how", "how_much", "how_many"}

// ParseAgendas reads {"agendas": [...]} out of a stored summary text.
// Anything else yields no agendas.
func ParseAgendas(summaryText string) []domain.AgendaItem {
	text := StripFence(summaryText)
	if text == "" {
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(doc["agendas"], &items); err != nil {
		return nil
	}

	agendas := make([]domain.AgendaItem, 0, len(items))
	for _, raw := range items {
		var item map[string]json.RawMessage
		if err := json.Unmarshal(raw, &item); err != nil || item == nil {
			continue
		}
		agendas = append(agendas, domain.AgendaItem{
			Title:       rawString(item["agenda"]),
			Description: rawString(item["agenda_description"]),
			Summary:     agendaSummary(item["summary"]),
		})
	}
	return agendas
}

// FormatAgendas renders agendas as numbered "title | description | summary" lines.
func FormatAgendas(agendas []domain.AgendaItem) string {
	var lines []string
	for i, a := range agendas {
		var parts []string
		for _, p := range []string{a.Title, a.Description, a.Summary} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.Join(parts, " | ")))
		}
	}
	return strings.Join(lines, "\n")
}

// agendaSummary prefers agenda_summary, then the labelled who/what/... fields.
func agendaSummary(raw json.RawMessage) string {
	if raw == nil || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err == nil {
		if v := valueText(fields["agenda_summary"]); v != "" {
			return v
		}
		var parts []string
		for _, label := range summaryLabels {
			if v := valueText(fields[label]); v != "" {
				parts = append(parts, label+": "+v)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " | ")
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return compact.String()
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func valueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return ""
	case []any:
		var parts []string
		for _, item := range t {
			if s := valueText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
