package lz4msgpack

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format selects how a Report is rendered.
type Format int

const (
	// FormatJSON renders the full report with all metadata.
	FormatJSON Format = iota
	// FormatHex renders the hex representation of the MessagePack envelope.
	FormatHex
	// FormatBinary renders the raw MessagePack envelope bytes.
	FormatBinary
	// FormatHuman renders only the human readable interpretation.
	FormatHuman
)

// ParseFormat maps a format name to a Format. Unknown names map to FormatJSON.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "hex":
		return FormatHex
	case "binary":
		return FormatBinary
	case "human":
		return FormatHuman
	default:
		return FormatJSON
	}
}

func (f Format) String() string {
	switch f {
	case FormatHex:
		return "hex"
	case FormatBinary:
		return "binary"
	case FormatHuman:
		return "human"
	default:
		return "json"
	}
}

// Report describes an inspected envelope: its MessagePack reserialization
// and a best-effort decoding of the compressed payload.
type Report struct {
	MessagePackHex    string `json:"messagepack_hex"`
	MessagePackLength int    `json:"messagepack_length"`
	ExtType           int8   `json:"original_ext_type"`
	HeaderHex         string `json:"original_header_data"`
	DataLength        int    `json:"original_data_length"`
	HumanReadable     any    `json:"human_readable"`

	messagePack []byte
}

// MessagePack returns the raw MessagePack envelope bytes.
func (r *Report) MessagePack() []byte {
	return r.messagePack
}

// Render renders the report in the requested format. FormatJSON and
// FormatHuman produce indented JSON; FormatHex and FormatBinary return the
// envelope itself in the corresponding encoding.
func (r *Report) Render(format Format) ([]byte, error) {
	switch format {
	case FormatHex:
		return []byte(r.MessagePackHex), nil
	case FormatBinary:
		return r.messagePack, nil
	case FormatHuman:
		return json.MarshalIndent(r.HumanReadable, "", "  ")
	default:
		return json.MarshalIndent(r, "", "  ")
	}
}

// Inspect parses the Node Buffer JSON rendering of an envelope, reserializes
// it to MessagePack, and attempts to decompress and decode the payload. A
// payload that cannot be decompressed or decoded does not fail the call; the
// failure is reported in the HumanReadable field instead.
func (t *Transcoder) Inspect(envelopeJSON []byte) (*Report, error) {
	if len(envelopeJSON) == 0 {
		return nil, ErrEmptyInput
	}

	var env Envelope
	if err := json.Unmarshal(envelopeJSON, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.ExtType != ExtLZ4BlockArray {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedExtension, env.ExtType)
	}

	packed, err := env.MarshalBinary()
	if err != nil {
		return nil, err
	}
	header, err := env.Header.MarshalMsgpack()
	if err != nil {
		return nil, err
	}

	report := &Report{
		MessagePackHex:    hex.EncodeToString(packed),
		MessagePackLength: len(packed),
		ExtType:           env.ExtType,
		HeaderHex:         hex.EncodeToString(header),
		DataLength:        len(env.Data),
		messagePack:       packed,
	}

	payload, _, err := t.uncompress(env.Data, env.Header.UncompressedSize)
	if err != nil {
		report.HumanReadable = Map{{Key: "error", Value: "failed to decompress data after multiple attempts"}}
		return report, nil
	}
	report.HumanReadable = t.humanReadable(payload)
	return report, nil
}

// humanReadable decodes a decompressed payload into a displayable value.
func (t *Transcoder) humanReadable(payload []byte) any {
	if len(payload) == 0 {
		return Map{{Key: "error", Value: "empty data after decompression"}}
	}

	value, err := unmarshalValue(payload)
	if err != nil {
		// Not MessagePack; fall back to a raw string view when printable.
		if utf8.Valid(payload) {
			s := string(payload)
			printable := !strings.ContainsFunc(s, func(r rune) bool {
				return unicode.IsControl(r) && !unicode.IsSpace(r)
			})
			if printable {
				return Map{{Key: "raw_string", Value: s}}
			}
		}
		return Map{{Key: "error", Value: "could not parse data as MessagePack or UTF-8 string"}}
	}

	if fields, ok := problemFields(value); ok {
		return fields
	}
	return value
}

// problemFields recognizes payloads that are positional encodings of an
// HTTP problem details object: [type, title, status, detail, instance].
func problemFields(value any) (Map, bool) {
	items, ok := value.([]any)
	if !ok || len(items) < 5 {
		return nil, false
	}

	var fields Map
	if s, ok := items[0].(string); ok {
		fields = append(fields, Member{Key: "type", Value: s})
	}
	if s, ok := items[1].(string); ok {
		fields = append(fields, Member{Key: "title", Value: s})
	}
	switch n := items[2].(type) {
	case int64:
		fields = append(fields, Member{Key: "status", Value: n})
	case float64:
		fields = append(fields, Member{Key: "status", Value: n})
	}
	if s, ok := items[3].(string); ok {
		fields = append(fields, Member{Key: "detail", Value: s})
	}
	if s, ok := items[4].(string); ok {
		fields = append(fields, Member{Key: "instance", Value: s})
	}

	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}
