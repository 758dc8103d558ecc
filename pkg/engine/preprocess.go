package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites document source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need no
//     global symbol and cannot clash with user variables.
//  2. kebab-case identifiers become snake_case (zygomys reads a hyphen
//     as subtraction).
//  3. ; line comments become // comments.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	p := &preprocessor{src: source}
	p.out.Grow(len(source) + len(source)/4)
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == '"':
			p.copyQuoted('"', true)
		case c == '`':
			p.copyQuoted('`', false)
		case c == ';':
			p.convertComment()
		case c == ':' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '=':
			p.out.WriteString(":=")
			p.pos += 2
		case c == ':' && p.pos+1 < len(p.src) && isLetter(p.src[p.pos+1]):
			p.convertKeyword()
		case c == '-' && p.isKebabHyphen():
			p.out.WriteByte('_')
			p.pos++
		default:
			p.out.WriteByte(c)
			p.pos++
		}
	}
	return p.out.String()
}

type preprocessor struct {
	src string
	pos int
	out strings.Builder
}

// copyQuoted copies a quoted literal including both delimiters.
func (p *preprocessor) copyQuoted(quote byte, escapes bool) {
	p.out.WriteByte(quote)
	p.pos++
	for p.pos < len(p.src) && p.src[p.pos] != quote {
		if escapes && p.src[p.pos] == '\\' && p.pos+1 < len(p.src) {
			p.out.WriteString(p.src[p.pos : p.pos+2])
			p.pos += 2
			continue
		}
		p.out.WriteByte(p.src[p.pos])
		p.pos++
	}
	if p.pos < len(p.src) {
		p.out.WriteByte(quote)
		p.pos++
	}
}

// convertComment turns ;, ;; or ;;; into // and copies the rest of the line.
func (p *preprocessor) convertComment() {
	p.out.WriteString("//")
	for p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}
	end := strings.IndexByte(p.src[p.pos:], '\n')
	if end < 0 {
		end = len(p.src) - p.pos
	}
	p.out.WriteString(p.src[p.pos : p.pos+end])
	p.pos += end
}

func (p *preprocessor) convertKeyword() {
	start := p.pos + 1
	end := start
	for end < len(p.src) && isKWChar(p.src[end]) {
		end++
	}
	p.out.WriteByte('"')
	p.out.WriteString(kwPrefix)
	p.out.WriteString(p.src[start:end])
	p.out.WriteByte('"')
	p.pos = end
}

// isKebabHyphen reports whether the hyphen at pos joins two identifier parts
// rather than acting as the minus operator.
func (p *preprocessor) isKebabHyphen() bool {
	i := p.pos
	return i > 0 && i+1 < len(p.src) && isIdentChar(p.src[i-1]) && isLetter(p.src[i+1])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
