package transcript

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// A small reader for language-literal data: quoted strings in either quote
// style, numbers, None/True/False, lists, tuples and dicts.

type kv struct {
	key   any
	value any
}

// dict keeps insertion order.
type dict []kv

type number string

type literalParser struct {
	src string
	pos int
}

func parseLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected trailing data at %d", p.pos)
	}
	return v, nil
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) value() (any, error) {
	switch c := p.peek(); {
	case c == 0:
		return nil, fmt.Errorf("unexpected end of input")
	case c == '[':
		return p.list(']')
	case c == '(':
		return p.list(')')
	case c == '{':
		return p.dict()
	case c == '\'' || c == '"':
		return p.str(false)
	case (c == 'u' || c == 'r' || c == 'U' || c == 'R') && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '\'' || p.src[p.pos+1] == '"'):
		p.pos++
		return p.str(c == 'r' || c == 'R')
	default:
		return p.bare()
	}
}

func (p *literalParser) list(closer byte) (any, error) {
	p.pos++ // opening bracket
	items := []any{}
	for {
		p.skipSpace()
		if p.peek() == closer {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closer:
			p.pos++
			return items, nil
		default:
			return nil, fmt.Errorf("expected ',' or %q at %d", closer, p.pos)
		}
	}
}

func (p *literalParser) dict() (any, error) {
	p.pos++ // {
	out := dict{}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}
		key, err := p.value()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, fmt.Errorf("expected ':' at %d", p.pos)
		}
		p.pos++
		p.skipSpace()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, kv{key: key, value: val})

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("expected ',' or '}' at %d", p.pos)
		}
	}
}

func (p *literalParser) str(raw bool) (any, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src):
			if raw {
				b.WriteByte(c)
				b.WriteByte(p.src[p.pos+1])
				p.pos += 2
				continue
			}
			if err := p.escape(&b); err != nil {
				return nil, err
			}
		case c == '\n':
			return nil, fmt.Errorf("unterminated string at %d", p.pos)
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return nil, fmt.Errorf("unterminated string")
}

func (p *literalParser) escape(b *strings.Builder) error {
	next := p.src[p.pos+1]
	p.pos += 2
	switch next {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\\', '\'', '"':
		b.WriteByte(next)
	case 'x':
		return p.codePoint(b, 2)
	case 'u':
		return p.codePoint(b, 4)
	case 'U':
		return p.codePoint(b, 8)
	default:
		b.WriteByte('\\')
		b.WriteByte(next)
	}
	return nil
}

func (p *literalParser) codePoint(b *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return fmt.Errorf("truncated escape at %d", p.pos)
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return fmt.Errorf("invalid escape at %d: %w", p.pos, err)
	}
	b.WriteRune(rune(n))
	p.pos += digits
	return nil
}

func (p *literalParser) bare() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ']' || c == ')' || c == '}' || c == ':' || c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			break
		}
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "None":
		return nil, nil
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return number(word), nil
	}
	return nil, fmt.Errorf("unexpected token %q at %d", word, start)
}

// literalText renders a parsed literal the way it would be printed.
func literalText(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return t
	case number:
		return string(t)
	case bool:
		if t {
			return "True"
		}
		return "False"
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = literalText(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case dict:
		parts := make([]string, len(t))
		for i, pair := range t {
			parts[i] = literalText(pair.key) + ": " + literalText(pair.value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(v)
}
