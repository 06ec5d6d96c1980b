// Package parser turns JSON text into a value.Value tree in a single pass.
//
// The scanner is iterative: nesting is tracked on an explicit stack of
// in-progress containers rather than through recursion, so input depth is
// bounded by the heap, not the goroutine stack. All byte access goes through
// a bounds-checked cursor; the index is checked against the input length
// before every read.
//
// Known deviation from RFC 8259: a \u escape inside a string is recognized
// but not decoded — the escape introducer is dropped and the following
// characters are copied verbatim.
package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	stderrors "errors"

	"github.com/mcncl/jsontree/errors"
	"github.com/mcncl/jsontree/value"
)

type parser struct {
	src []byte
	pos int
}

// frame is one in-progress container. For objects, key holds the member
// name currently awaiting its value.
type frame struct {
	object  bool
	elems   []value.Value
	members map[string]value.Value
	key     string
}

// ParseBytes parses a single JSON document from src.
func ParseBytes(src []byte) (value.Value, error) {
	p := &parser{src: src}
	return p.parse()
}

// ParseString parses a single JSON document from a string.
func ParseString(jsonString string) (value.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return value.Null(), errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

// Parse reads the reader to its end and parses the contents as a single
// JSON document.
func Parse(reader io.Reader) (value.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return value.Null(), errors.NewInputError("failed to read input", err)
	}
	if len(data) == 0 {
		return value.Null(), errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	return ParseBytes(data)
}

// ParseFile parses JSON from a file path.
func ParseFile(filePath string) (value.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return value.Null(), errors.NewInputError("file path is empty", errors.ErrFileNotFound)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return value.Null(), errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return value.Null(), errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return value.Null(), errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return ParseBytes(data)
}

// parse runs the scanner loop. Each iteration of the outer loop completes
// one value; the inner loop then feeds it to the innermost open container,
// popping finished containers until one still wants more members or the
// stack is empty (in which case the value is the whole document).
func (p *parser) parse() (value.Value, error) {
	var stack []frame

	ch, err := p.nextToken()
	if err != nil {
		return value.Null(), err
	}

	for {
		var val value.Value

		switch {
		case ch == '[':
			ch, err = p.nextToken()
			if err != nil {
				return value.Null(), err
			}
			if ch != ']' {
				stack = append(stack, frame{elems: make([]value.Value, 0, 4)})
				continue
			}
			val = value.Array()

		case ch == '{':
			ch, err = p.nextToken()
			if err != nil {
				return value.Null(), err
			}
			if ch != '}' {
				if ch != '"' {
					return value.Null(), p.unexpected()
				}
				key, err := p.readString()
				if err != nil {
					return value.Null(), err
				}
				if err := p.expect(':'); err != nil {
					return value.Null(), err
				}
				stack = append(stack, frame{object: true, members: make(map[string]value.Value, 4), key: key})
				ch, err = p.nextToken()
				if err != nil {
					return value.Null(), err
				}
				continue
			}
			val = value.Object(map[string]value.Value{})

		case ch == '"':
			s, err := p.readString()
			if err != nil {
				return value.Null(), err
			}
			val = value.String(s)

		case ch >= '0' && ch <= '9':
			n, err := p.readNumber(ch)
			if err != nil {
				return value.Null(), err
			}
			val = value.Number(n)

		case ch == '-':
			ch, err = p.readByte()
			if err != nil {
				return value.Null(), err
			}
			if ch < '0' || ch > '9' {
				return value.Null(), p.unexpected()
			}
			n, err := p.readNumber(ch)
			if err != nil {
				return value.Null(), err
			}
			val = value.Number(-n)

		case ch == 't':
			if err := p.expectSequence("rue"); err != nil {
				return value.Null(), err
			}
			val = value.True

		case ch == 'f':
			if err := p.expectSequence("alse"); err != nil {
				return value.Null(), err
			}
			val = value.False

		case ch == 'n':
			if err := p.expectSequence("ull"); err != nil {
				return value.Null(), err
			}
			val = value.Null()

		default:
			return value.Null(), p.unexpected()
		}

		// Feed the completed value upward.
		for {
			if len(stack) == 0 {
				if err := p.expectEOF(); err != nil {
					return value.Null(), err
				}
				return val, nil
			}

			top := &stack[len(stack)-1]
			if !top.object {
				top.elems = append(top.elems, val)

				ch, err = p.nextToken()
				if err != nil {
					return value.Null(), err
				}
				if ch == ',' {
					ch, err = p.nextToken()
					if err != nil {
						return value.Null(), err
					}
					break
				}
				if ch != ']' {
					return value.Null(), p.unexpected()
				}
				val = value.Array(top.elems...)
			} else {
				// Duplicate keys overwrite: last write wins.
				top.members[top.key] = val

				ch, err = p.nextToken()
				if err != nil {
					return value.Null(), err
				}
				if ch == ',' {
					if err := p.expect('"'); err != nil {
						return value.Null(), err
					}
					key, err := p.readString()
					if err != nil {
						return value.Null(), err
					}
					top.key = key
					if err := p.expect(':'); err != nil {
						return value.Null(), err
					}
					ch, err = p.nextToken()
					if err != nil {
						return value.Null(), err
					}
					break
				}
				if ch != '}' {
					return value.Null(), p.unexpected()
				}
				val = value.Object(top.members)
			}

			stack = stack[:len(stack)-1]
		}
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// readByte returns the next byte and advances the cursor.
func (p *parser) readByte() (byte, error) {
	if p.eof() {
		return 0, errors.NewParseErrorAt("unexpected end of input", p.pos, io.ErrUnexpectedEOF)
	}
	ch := p.src[p.pos]
	p.pos++
	return ch, nil
}

// nextToken returns the next byte that is not insignificant whitespace.
// Only ASCII whitespace (bytes 9-13 and 32) is skipped.
func (p *parser) nextToken() (byte, error) {
	for {
		ch, err := p.readByte()
		if err != nil {
			return 0, err
		}
		if isWhitespace(ch) {
			continue
		}
		return ch, nil
	}
}

func isWhitespace(ch byte) bool {
	return (ch >= 9 && ch <= 13) || ch == 32
}

// expect consumes whitespace and requires the next byte to be want.
func (p *parser) expect(want byte) error {
	ch, err := p.nextToken()
	if err != nil {
		return err
	}
	if ch != want {
		return p.unexpected()
	}
	return nil
}

// expectSequence requires the exact bytes of seq to follow, with no
// intervening whitespace. Used for the tails of true, false and null.
func (p *parser) expectSequence(seq string) error {
	for i := 0; i < len(seq); i++ {
		ch, err := p.readByte()
		if err != nil {
			return err
		}
		if ch != seq[i] {
			return p.unexpected()
		}
	}
	return nil
}

// expectEOF requires only whitespace between the cursor and end of input.
func (p *parser) expectEOF() error {
	for !p.eof() {
		ch := p.src[p.pos]
		p.pos++
		if !isWhitespace(ch) {
			return errors.NewParseErrorAt("trailing data after top-level value", p.pos-1, errors.ErrTrailingData)
		}
	}
	return nil
}

// readString reads a string literal. The opening quote has already been
// consumed. Escapes for quote, backslash, slash, b, f, t, r and n are
// decoded; \u is dropped without decoding.
func (p *parser) readString() (string, error) {
	var sb strings.Builder
	for {
		if p.eof() {
			return "", errors.NewParseErrorAt("unterminated string literal", p.pos, errors.ErrUnterminatedString)
		}
		ch := p.src[p.pos]
		if ch == '"' {
			p.pos++
			return sb.String(), nil
		}
		if ch == '\\' {
			p.pos++
			escaped, err := p.readByte()
			if err != nil {
				return "", errors.NewParseErrorAt("unterminated string literal", p.pos, errors.ErrUnterminatedString)
			}
			switch escaped {
			case 'u':
				// Unicode escapes are not decoded.
				continue
			case '"', '\\', '/':
				sb.WriteByte(escaped)
			case 'b':
				sb.WriteByte(0x8)
			case 'f':
				sb.WriteByte(0xC)
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'n':
				sb.WriteByte('\n')
			default:
				return "", p.unexpected()
			}
			continue
		}
		sb.WriteByte(ch)
		p.pos++
	}
}

// readNumber reads a number literal starting with the already-consumed
// digit first. Bytes accumulate until a delimiter or end of input, then the
// whole literal is handed to strconv.
func (p *parser) readNumber(first byte) (float64, error) {
	start := p.pos - 1
	var sb strings.Builder
	sb.WriteByte(first)

	for !p.eof() {
		ch := p.src[p.pos]
		if isNumberDelimiter(ch) {
			break
		}
		sb.WriteByte(ch)
		p.pos++
	}

	n, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		var numErr *strconv.NumError
		if stderrors.As(err, &numErr) && stderrors.Is(numErr.Err, strconv.ErrRange) {
			return 0, errors.NewParseErrorAt(
				fmt.Sprintf("number %q out of range", sb.String()), start, errors.ErrOutOfRange)
		}
		return 0, errors.NewParseErrorAt(
			fmt.Sprintf("invalid number literal %q", sb.String()), start, errors.ErrInvalidNumber)
	}
	return n, nil
}

func isNumberDelimiter(ch byte) bool {
	switch ch {
	case '\\', ' ', ',', ']', '}', '\n', '\r':
		return true
	}
	return false
}

func (p *parser) unexpected() *errors.CodecError {
	offset := p.pos
	if offset > 0 {
		offset--
	}
	if offset < len(p.src) {
		return errors.NewParseErrorAt(
			fmt.Sprintf("unexpected byte %q", p.src[offset]), offset, errors.ErrUnexpectedByte)
	}
	return errors.NewParseErrorAt("unexpected byte", offset, errors.ErrUnexpectedByte)
}
