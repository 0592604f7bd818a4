package configdomain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Serialize renders raw JSON the way Python's json.dumps does with default
// arguments: ", " between items, ": " after keys, object keys in source
// order, non-ASCII escaped as \uXXXX. Number literals are kept verbatim.
func Serialize(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var sb strings.Builder
	if err := writeValue(dec, &sb); err != nil {
		return "", err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("unexpected data after JSON value")
	}
	return sb.String(), nil
}

// Render returns the environment text for a record value. Composite keys
// are always serialized; strings are stored verbatim; numbers, booleans,
// objects and arrays use their JSON text. A null value is an error.
func Render(key string, raw json.RawMessage) (string, error) {
	if IsCompositeKey(key) {
		return Serialize(raw)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case 'n':
		return "", ErrNullValue
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		return Serialize(trimmed)
	}
}

func writeValue(dec *json.Decoder, sb *strings.Builder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return writeObject(dec, sb)
		case '[':
			return writeArray(dec, sb)
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		writeString(sb, v)
	case json.Number:
		sb.WriteString(v.String())
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case nil:
		sb.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

func writeObject(dec *json.Decoder, sb *strings.Builder) error {
	sb.WriteByte('{')
	for first := true; dec.More(); first = false {
		if !first {
			sb.WriteString(", ")
		}
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("object key is %T, not string", tok)
		}
		writeString(sb, key)
		sb.WriteString(": ")
		if err := writeValue(dec, sb); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	sb.WriteByte('}')
	return nil
}

func writeArray(dec *json.Decoder, sb *strings.Builder) error {
	sb.WriteByte('[')
	for first := true; dec.More(); first = false {
		if !first {
			sb.WriteString(", ")
		}
		if err := writeValue(dec, sb); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	sb.WriteByte(']')
	return nil
}

const hex = "0123456789abcdef"

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r >= 0x20 && r <= 0x7e {
				sb.WriteRune(r)
				continue
			}
			if r == utf8.RuneError {
				writeUnicodeEscape(sb, 0xfffd)
				continue
			}
			if r > 0xffff {
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(sb, hi)
				writeUnicodeEscape(sb, lo)
				continue
			}
			writeUnicodeEscape(sb, r)
		}
	}
	sb.WriteByte('"')
}

func writeUnicodeEscape(sb *strings.Builder, r rune) {
	sb.WriteString(`\u`)
	sb.WriteByte(hex[(r>>12)&0xf])
	sb.WriteByte(hex[(r>>8)&0xf])
	sb.WriteByte(hex[(r>>4)&0xf])
	sb.WriteByte(hex[r&0xf])
}
