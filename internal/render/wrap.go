package render

import "strings"

// measureFunc returns the rendered width of s at the current font.
type measureFunc func(s string) float64

// wrapLine packs the words of line greedily into lines no wider than
// maxWidth. A word wider than maxWidth on its own is hard-split at the
// widest prefix that fits, and always advances by at least one rune.
func wrapLine(measure measureFunc, line string, maxWidth float64) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var packed []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		packed = append(packed, current)
		current = word
	}
	packed = append(packed, current)

	out := make([]string, 0, len(packed))
	for _, l := range packed {
		if measure(l) <= maxWidth {
			out = append(out, l)
			continue
		}
		out = append(out, hardSplit(measure, l, maxWidth)...)
	}
	return out
}

func hardSplit(measure measureFunc, s string, maxWidth float64) []string {
	var out []string
	rest := []rune(s)
	for len(rest) > 0 && measure(string(rest)) > maxWidth {
		cut := len(rest) - 1
		for cut > 0 && measure(string(rest[:cut])) > maxWidth {
			cut--
		}
		if cut == 0 {
			cut = 1
		}
		out = append(out, string(rest[:cut]))
		rest = rest[cut:]
	}
	if len(rest) > 0 {
		out = append(out, string(rest))
	}
	return out
}
