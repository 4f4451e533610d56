// Package envblock parses and writes blocks of KEY=VALUE lines, the format secrets are
// exchanged in between the vault, the remote platform and local env files.
package envblock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports every key left without a value and every line that could not be parsed.
type ParseError struct {
	NullKeys []string
	Lines    []int
}

func (e *ParseError) Error() string {
	var parts []string
	if len(e.NullKeys) > 0 {
		parts = append(parts, "values for the following keys are null: "+strings.Join(e.NullKeys, ", "))
	}
	if len(e.Lines) > 0 {
		lines := make([]string, len(e.Lines))
		for i, l := range e.Lines {
			lines[i] = strconv.Itoa(l)
		}
		parts = append(parts, "could not parse line(s) "+strings.Join(lines, ", "))
	}
	return "failed to parse env block, " + strings.Join(parts, "; ")
}

// Decode parses text into a SecretSet. Every line is evaluated before failing, so the
// returned *ParseError names all offending keys and lines at once.
// Later assignments of a key override earlier ones but keep the first position.
func Decode(text string) (*SecretSet, error) {
	set := NewSecretSet()
	p := &parser{src: text, line: 1}

	var nulls []string
	var badLines []int

	for !p.eof() {
		start, line := p.pos, p.line
		st, err := p.statement()
		if err != nil {
			// An unterminated quote must not swallow the following lines.
			badLines = append(badLines, line)
			p.pos, p.line = start, line
			p.skipLine()
			continue
		}
		if st.key == "" {
			continue
		}

		nulls = without(nulls, st.key)
		if st.null {
			nulls = append(nulls, st.key)
			set.Delete(st.key)
			continue
		}
		set.Set(st.key, st.value)
	}

	if len(nulls) > 0 || len(badLines) > 0 {
		return nil, &ParseError{NullKeys: nulls, Lines: badLines}
	}
	return set, nil
}

// Encode writes the set as KEY=VALUE lines in insertion order.
// Values that would not survive a plain round trip are double-quoted.
func Encode(s *SecretSet) string {
	var b strings.Builder
	for k, v := range s.All() {
		b.WriteString(encodeKey(k))
		b.WriteByte('=')
		b.WriteString(encodeValue(v))
		b.WriteByte('\n')
	}
	return b.String()
}

var plainKey = regexp.MustCompile(`^[^=#\s'][^=#\s]*$`)

// encodeKey single-quotes keys holding separators or starting with a quote.
func encodeKey(k string) string {
	if plainKey.MatchString(k) {
		return k
	}
	return quote(k, '\'')
}

func encodeValue(v string) string {
	if !needsQuotes(v) {
		return v
	}
	return quote(v, '"')
}

// quote escapes byte by byte so invalid UTF-8 survives unchanged.
func quote(v string, q byte) string {
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case q:
			b.WriteByte('\\')
			b.WriteByte(q)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func needsQuotes(v string) bool {
	if v == "" {
		return false
	}
	if strings.ContainsAny(v, "\n\r\t\"'\\#") {
		return true
	}
	return strings.TrimSpace(v) != v
}

func without(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i:i], keys[i+1:]...)
		}
	}
	return keys
}

type statement struct {
	key   string
	value string
	null  bool
}

// parser walks the block byte by byte; all delimiters are ASCII so UTF-8 values pass through.
type parser struct {
	src  string
	pos  int
	line int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() {
	if p.src[p.pos] == '\n' {
		p.line++
	}
	p.pos++
}

func (p *parser) skipBlanks() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) skipLine() {
	for !p.eof() {
		c := p.peek()
		p.advance()
		if c == '\n' {
			return
		}
	}
}

// endOfLine consumes an optional comment and the line terminator.
func (p *parser) endOfLine() error {
	p.skipBlanks()
	if p.peek() == '#' {
		for !p.eof() && p.peek() != '\n' {
			p.pos++
		}
	}
	if p.peek() == '\r' {
		p.pos++
	}
	if p.eof() {
		return nil
	}
	if p.peek() != '\n' {
		return fmt.Errorf("unexpected character %q", p.peek())
	}
	p.advance()
	return nil
}

func (p *parser) statement() (statement, error) {
	p.skipBlanks()
	switch p.peek() {
	case '\n', '\r', '#', 0:
		return statement{}, p.endOfLine()
	}

	if strings.HasPrefix(p.src[p.pos:], "export") {
		rest := p.src[p.pos+len("export"):]
		if len(rest) > 0 && (rest[0] == ' ' || rest[0] == '\t') {
			p.pos += len("export")
			p.skipBlanks()
		}
	}

	key, err := p.key()
	if err != nil {
		return statement{}, err
	}

	p.skipBlanks()
	if p.peek() != '=' {
		if err := p.endOfLine(); err != nil {
			return statement{}, err
		}
		return statement{key: key, null: true}, nil
	}
	p.pos++
	p.skipBlanks()

	value, err := p.value()
	if err != nil {
		return statement{}, err
	}
	return statement{key: key, value: value}, nil
}

func (p *parser) key() (string, error) {
	if p.peek() == '\'' {
		return p.quotedKey()
	}

	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '=' || c == '#' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("empty key")
	}
	return p.src[start:p.pos], nil
}

// quotedKey reads a single-quoted key on one line. It accepts the same escapes as a
// double-quoted value so any key can be written.
func (p *parser) quotedKey() (string, error) {
	p.pos++
	var b strings.Builder
	for !p.eof() && p.peek() != '\'' && p.peek() != '\n' {
		c := p.peek()
		if c == '\\' && p.pos+1 < len(p.src) {
			if r, ok := unescape('"', p.src[p.pos+1]); ok {
				b.WriteString(r)
				p.pos += 2
				continue
			}
		}
		b.WriteByte(c)
		p.pos++
	}
	if p.peek() != '\'' {
		return "", fmt.Errorf("unterminated quoted key")
	}
	p.pos++
	if b.Len() == 0 {
		return "", fmt.Errorf("empty key")
	}
	return b.String(), nil
}

func (p *parser) value() (string, error) {
	switch p.peek() {
	case '\'':
		v, err := p.quoted('\'')
		if err != nil {
			return "", err
		}
		return v, p.endOfLine()
	case '"':
		v, err := p.quoted('"')
		if err != nil {
			return "", err
		}
		return v, p.endOfLine()
	}

	start := p.pos
	for !p.eof() && p.peek() != '\n' && p.peek() != '\r' {
		p.pos++
	}
	raw := p.src[start:p.pos]
	if err := p.endOfLine(); err != nil {
		return "", err
	}
	return unquotedValue(raw), nil
}

var inlineComment = regexp.MustCompile(`\s+#.*`)

func unquotedValue(raw string) string {
	return strings.TrimRight(inlineComment.ReplaceAllString(raw, ""), " \t")
}

// quoted reads a quoted value that may span lines. Single quotes only unescape \' and \\.
func (p *parser) quoted(q byte) (string, error) {
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", fmt.Errorf("unterminated quoted value")
		}
		c := p.peek()
		if c == q {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			if r, ok := unescape(q, next); ok {
				b.WriteString(r)
				p.pos += 2
				continue
			}
		}
		b.WriteByte(c)
		p.advance()
	}
}

func unescape(q, c byte) (string, bool) {
	switch c {
	case '\\':
		return `\`, true
	case '\'':
		return "'", true
	}
	if q == '\'' {
		return "", false
	}
	switch c {
	case '"':
		return `"`, true
	case 'n':
		return "\n", true
	case 'r':
		return "\r", true
	case 't':
		return "\t", true
	}
	return "", false
}
