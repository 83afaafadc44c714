package token

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NeedsQuote reports whether v cannot be written as a bare word.
func NeedsQuote(v string) bool {
	if v == "" {
		return true
	}
	switch v[0] {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-', '+':
		return true
	}
	switch v {
	case "true", "false", "null":
		return true
	}
	for _, r := range v {
		if !isPlain(r) {
			return true
		}
	}
	return false
}

func isPlain(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '_', '-', '$', '/', '@', '+':
		return true
	}
	return false
}

// KPathQuoteField returns true if a field name needs to be quoted in a kinded path.
// A field needs quoting if:
//   - It contains characters that require quoting according to NeedsQuote (spaces, special chars)
//   - It contains any of the path syntax characters: ".", "[", "{"
func KPathQuoteField(v string) bool {
	return NeedsQuote(v) || strings.ContainsAny(v, ".[{")
}

// Quote returns v as a double quoted string, or as a single quoted
// one when autoSingle is set and that needs fewer escapes.
func Quote(v string, autoSingle bool) string {
	n := len(v)
	ndq, nsq := 0, 0
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	ucs := []byte{0, 0}
	cps := []byte{0, 0, 0, 0}
	for _, r := range v {
		switch r {
		case '"':
			ndq++
			d = append(d, '\\', '"')
		case '\'':
			nsq++
			d = append(d, '\'')
		case '\\':
			d = append(d, '\\', '\\')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			if unicode.IsControl(r) {
				ucs[0] = byte(r >> 8)
				ucs[1] = byte(r)
				cps = hex.AppendEncode(cps[:0], ucs)
				d = append(d, '\\', 'u', cps[0], cps[1], cps[2], cps[3])
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	d = append(d, '"')
	if !autoSingle || nsq >= ndq {
		return string(d)
	}
	n = len(d)
	sd := make([]byte, 0, n)
	j := 0
	for i, c := range d {
		switch c {
		case '\'':
			sd = append(sd, '\\', '\'')
			j += 2
		case '"':
			switch i {
			case 0:
				sd = append(sd, '\'')
				j++
			case n - 1:
				sd = append(sd, '\'')
				j++
			default:
				// it was quoted, overwrite \
				sd[j-1] = '"'
			}
		default:
			sd = append(sd, c)
			j++
		}
	}
	return string(sd)
}

// Unquote decodes a string produced by Quote.
func Unquote(v string) (string, error) {
	s, n, err := UnquotePrefix(v)
	if err != nil {
		return "", err
	}
	if n != len(v) {
		return "", ErrUnterminated
	}
	return s, nil
}

// UnquotePrefix decodes the quoted string at the start of v and returns
// the number of bytes it occupied.
func UnquotePrefix(v string) (string, int, error) {
	if len(v) == 0 {
		return "", 0, ErrUnterminated
	}
	qc := rune(v[0])
	if qc != '"' && qc != '\'' {
		return "", 0, ErrUnterminated
	}
	b := &strings.Builder{}
	i := 1
	for i < len(v) {
		r, sz := utf8.DecodeRuneInString(v[i:])
		i += sz
		switch {
		case r == utf8.RuneError:
			return "", i, ErrBadUTF8
		case r == qc:
			return b.String(), i, nil
		case r == '\\':
			if i >= len(v) {
				return "", i, ErrUnterminated
			}
			e := v[i]
			i++
			switch e {
			case '"', '\'', '\\', '/':
				b.WriteByte(e)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if i+4 > len(v) {
					return "", i, ErrUnterminated
				}
				cp, err := strconv.ParseUint(v[i:i+4], 16, 32)
				if err != nil {
					return "", i, ErrBadUnicode
				}
				b.WriteRune(rune(cp))
				i += 4
			default:
				return "", i, ErrBadEscape
			}
		case unicode.IsControl(r):
			return "", i, ErrUnicodeControl
		default:
			b.WriteRune(r)
		}
	}
	return "", i, ErrUnterminated
}
