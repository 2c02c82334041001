package lz4msgpack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

// Member is a single key/value pair of a JSON object, kept in document order.
type Member struct {
	Key   string
	Value any
}

// Map is a JSON object whose member order matches the source document.
// A plain map[string]any would lose the order the original document and the
// MessagePack encoding both preserve.
type Map []Member

// Get returns the value for key and whether it is present.
func (m Map) Get(key string) (any, bool) {
	for _, mem := range m {
		if mem.Key == key {
			return mem.Value, true
		}
	}
	return nil, false
}

// MarshalJSON renders the object with members in their original order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mem := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(mem.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(mem.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// byteList is a byte slice that renders as a JSON array of numbers rather
// than base64, matching the Node Buffer representation in the envelope JSON.
type byteList []byte

func (b byteList) MarshalJSON() ([]byte, error) {
	nums := make([]int, len(b))
	for i, v := range b {
		nums[i] = int(v)
	}
	return json.Marshal(nums)
}

func (b *byteList) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 0xFF {
			return fmt.Errorf("byte value %d out of range", n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// parseJSON parses src as exactly one JSON document into an order-preserving
// value tree. Values are nil, bool, int64, float64, string, []any, or Map.
func parseJSON(src []byte) (any, error) {
	if len(src) == 0 {
		return nil, ErrEmptyInput
	}
	if !utf8.Valid(src) {
		return nil, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()

	value, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	// More() misses stray closing delimiters, so demand a clean EOF instead.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrMalformedJSON)
	}
	return value, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of input")
		}
		return nil, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Map{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				value, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj = append(obj, Member{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				value, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return t, nil
	case bool:
		return t, nil
	case json.Number:
		return parseNumber(t)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// parseNumber keeps integers as int64 when they fit and falls back to
// float64 otherwise, the same choice the MessagePack encoding makes.
func parseNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", n.String())
	}
	return f, nil
}

// renderJSON renders a value tree back to compact JSON text. Map values
// serialize with their member order intact.
func renderJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
