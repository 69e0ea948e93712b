// Package transcript turns raw speech-to-text output into speaker-tagged
// segments. The upstream service has returned JSON arrays, language-literal
// arrays and plain "speaker: text" lines over time; all three stay readable.
package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Segment is one utterance.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Result is the normalized view of a raw transcript.
type Result struct {
	Segments []Segment `json:"segments"`
	Plain    string    `json:"plain"`
	Speakers []string  `json:"speakers"`
	// Structured is true when the raw text was a segment array.
	Structured bool `json:"structured"`
}

// maxSpeakerRunes bounds the text before ":" that can still be a speaker name.
const maxSpeakerRunes = 30

// Normalize never fails. Unparseable input comes back as a single plain text
// rendering with whatever "speaker: text" lines could be recognised.
func Normalize(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Segments: []Segment{}, Speakers: []string{}}
	}

	if pairs, ok := decodeJSON(raw); ok {
		return structured(pairs)
	}
	if pairs, ok := decodeLiteral(raw); ok {
		return structured(pairs)
	}

	segments := splitLines(raw)
	return Result{
		Segments: segments,
		Plain:    raw,
		Speakers: speakersOf(segments),
	}
}

// Plain joins segments as "speaker: text" lines.
func Plain(segments []Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Speaker == "" {
			lines = append(lines, s.Text)
			continue
		}
		lines = append(lines, s.Speaker+": "+s.Text)
	}
	return strings.Join(lines, "\n")
}

// Encode serializes segments back into the JSON array of single-key objects
// the speech service produces, so edited transcripts round-trip through Normalize.
func Encode(segments []Segment) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, s := range segments {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Speaker)
		if err != nil {
			return "", fmt.Errorf("encode speaker: %w", err)
		}
		val, err := json.Marshal(s.Text)
		if err != nil {
			return "", fmt.Errorf("encode text: %w", err)
		}
		buf.WriteByte('{')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

func structured(segments []Segment) Result {
	return Result{
		Segments:   segments,
		Plain:      Plain(segments),
		Speakers:   speakersOf(segments),
		Structured: true,
	}
}

// decodeJSON accepts only a top-level array. Objects keep their key order;
// items that are not objects are skipped.
func decodeJSON(raw string) ([]Segment, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") || !json.Valid([]byte(trimmed)) {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, false
	}

	segments := []Segment{}
	for _, item := range items {
		pairs, err := orderedObject(item)
		if err != nil {
			continue
		}
		segments = append(segments, pairs...)
	}
	if len(items) > 0 && len(segments) == 0 {
		return nil, false
	}
	return segments, true
}

func orderedObject(data json.RawMessage) ([]Segment, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not an object")
	}

	var out []Segment
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, Segment{
			Speaker: strings.TrimSpace(key),
			Text:    strings.TrimSpace(jsonText(value)),
		})
	}
	return out, nil
}

func jsonText(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return string(value)
	}
	return compact.String()
}

func decodeLiteral(raw string) ([]Segment, bool) {
	v, err := parseLiteral(raw)
	if err != nil {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}

	segments := []Segment{}
	for _, item := range list {
		dict, ok := item.(dict)
		if !ok {
			continue
		}
		for _, kv := range dict {
			segments = append(segments, Segment{
				Speaker: strings.TrimSpace(literalText(kv.key)),
				Text:    strings.TrimSpace(literalText(kv.value)),
			})
		}
	}
	if len(list) > 0 && len(segments) == 0 {
		return nil, false
	}
	return segments, true
}

func splitLines(raw string) []Segment {
	segments := []Segment{}
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		speaker, text, ok := strings.Cut(line, ":")
		speaker = strings.TrimSpace(speaker)
		if ok && looksLikeSpeaker(speaker, text) {
			segments = append(segments, Segment{Speaker: speaker, Text: strings.TrimSpace(text)})
			continue
		}
		segments = append(segments, Segment{Text: line})
	}
	return segments
}

// looksLikeSpeaker rejects prefixes that read as prose, markup or a URL scheme.
// Sentence punctuation in the prefix means it is prose.
func looksLikeSpeaker(prefix, rest string) bool {
	if prefix == "" || utf8.RuneCountInString(prefix) > maxSpeakerRunes {
		return false
	}
	if strings.ContainsAny(prefix, ".?!") || strings.ContainsAny(prefix, "[]{}\"'") {
		return false
	}
	return !strings.HasPrefix(rest, "//")
}

func speakersOf(segments []Segment) []string {
	seen := make(map[string]bool)
	speakers := []string{}
	for _, s := range segments {
		if s.Speaker == "" || seen[s.Speaker] {
			continue
		}
		seen[s.Speaker] = true
		speakers = append(speakers, s.Speaker)
	}
	sort.Strings(speakers)
	return speakers
}
