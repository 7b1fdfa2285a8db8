package lexer

import (
	"fmt"
	"strings"
)

var escapes = map[byte]byte{
	'0':  0,
	'b':  '\b',
	't':  '\t',
	'n':  '\n',
	'f':  '\f',
	'r':  '\r',
	'"':  '"',
	'\'': '\'',
	'\\': '\\',
}

// UnquoteChar decodes the text of a character literal token ('a', '\n').
func UnquoteChar(text string) (byte, error) {
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, fmt.Errorf("malformed character literal %s", text)
	}
	body, err := unescape(text[1 : len(text)-1])
	if err != nil {
		return 0, err
	}
	if len(body) != 1 {
		return 0, fmt.Errorf("character literal %s must hold one character", text)
	}
	return body[0], nil
}

// UnquoteString decodes the text of a string literal token.
func UnquoteString(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", fmt.Errorf("malformed string literal %s", text)
	}
	return unescape(text[1 : len(text)-1])
}

func unescape(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape")
		}
		dec, ok := escapes[body[i]]
		if !ok {
			return "", fmt.Errorf("unknown escape sequence '\\%c'", body[i])
		}
		b.WriteByte(dec)
	}
	return b.String(), nil
}
