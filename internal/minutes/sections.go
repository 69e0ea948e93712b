// Package minutes reads the named sections out of user-edited minutes markup.
package minutes

import (
	"strings"

	"golang.org/x/net/html"
)

// Section names used by the minutes editor.
const (
	SectionBase      = "base"
	SectionContents  = "contents"
	SectionResults   = "results"
	SectionTodos     = "todos"
	SectionAttendees = "attendees"
)

const (
	sectionAttr   = "data-minutes-section"
	editboxClass  = "minutes-editbox"
	majorAgendaTH = "주요안건"
)

// headerKeywords identify a section's own heading line. All keywords must
// appear in the first line once spaces are removed.
var headerKeywords = map[string][]string{
	SectionBase:     {"기본", "정보"},
	SectionContents: {"회의", "내용"},
	SectionResults:  {"회의", "결과"},
	SectionTodos:    {"해야", "할", "일"},
}

// Sections maps a section name to its cleaned text. A missing key means the
// section was not in the markup; an empty value means it was present but empty.
type Sections map[string]string

// Has reports whether the section marker was present.
func (s Sections) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Text returns the section text, empty when absent.
func (s Sections) Text(name string) string {
	return s[name]
}

// Empty reports whether no section marker was found at all.
func (s Sections) Empty() bool {
	return len(s) == 0
}

// ParseSections never fails: markup the parser cannot make sense of simply
// yields fewer sections.
func ParseSections(body string) Sections {
	sections := Sections{}
	if strings.TrimSpace(body) == "" {
		return sections
	}

	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return sections
	}

	walk(root, func(n *html.Node) {
		name, ok := attr(n, sectionAttr)
		if !ok || name == "" {
			return
		}
		sections[name] = clean(textOf(n), headerKeywords[name])
	})
	return sections
}

// ExtractMajorAgenda returns the editor box that follows the "주요안건" table
// header, or "" when the markup has none.
func ExtractMajorAgenda(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var nodes []*html.Node
	walk(root, func(n *html.Node) { nodes = append(nodes, n) })

	for i, n := range nodes {
		if n.Type != html.ElementNode || n.Data != "th" || normalizeSpace(textOf(n)) != majorAgendaTH {
			continue
		}
		for _, next := range nodes[i+1:] {
			if next.Type != html.ElementNode || next.Data != "div" {
				continue
			}
			if class, _ := attr(next, "class"); strings.Contains(class, editboxClass) {
				return strings.Join(lines(textOf(next)), " ")
			}
		}
		return ""
	}
	return ""
}

// clean drops blank lines and a recognised header line.
func clean(text string, keywords []string) string {
	ls := lines(text)
	if len(ls) > 0 && len(keywords) > 0 {
		first := strings.ReplaceAll(ls[0], " ", "")
		matched := true
		for _, k := range keywords {
			if !strings.Contains(first, k) {
				matched = false
				break
			}
		}
		if matched {
			ls = ls[1:]
		}
	}
	return strings.Join(ls, "\n")
}

// lines splits text into trimmed, non-blank lines with non-breaking spaces
// turned into plain spaces.
func lines(text string) []string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "div": true,
	"dl": true, "dt": true, "dd": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "li": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

// textOf flattens a subtree into text, turning block boundaries and <br>
// into line breaks.
func textOf(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				b.WriteByte('\n')
				return
			case "td", "th":
				b.WriteByte(' ')
			}
			if blockElements[n.Data] {
				b.WriteByte('\n')
				defer b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return b.String()
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	if n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}
