package lz4msgpack

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestBlockHeaderMarshalSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
		want []byte
	}{
		{name: "one byte", size: 5, want: []byte{204, 5}},
		{name: "one byte max", size: 0xFF, want: []byte{204, 0xFF}},
		{name: "two bytes", size: 0x1234, want: []byte{204, 0x12, 0x34}},
		{name: "two bytes max", size: 0xFFFF, want: []byte{204, 0xFF, 0xFF}},
		{name: "three bytes", size: 0x123456, want: []byte{204, 0x12, 0x34, 0x56}},
		{name: "four bytes", size: 0x1234567, want: []byte{204, 0x01, 0x23, 0x45, 0x67}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := BlockHeader{UncompressedSize: tt.size}
			payload, err := header.MarshalMsgpack()
			if err != nil {
				t.Fatalf("MarshalMsgpack() failed: %v", err)
			}
			if !bytes.Equal(payload, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, payload)
			}

			var parsed BlockHeader
			if err := parsed.UnmarshalMsgpack(payload); err != nil {
				t.Fatalf("UnmarshalMsgpack() failed: %v", err)
			}
			if parsed.UncompressedSize != tt.size {
				t.Errorf("Expected size %d, got %d", tt.size, parsed.UncompressedSize)
			}
		})
	}
}

func TestBlockHeaderUnmarshalVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    int
	}{
		{name: "fixint", payload: []byte{17}, want: 17},
		{name: "uint8 tag", payload: []byte{0xcc, 42}, want: 42},
		{name: "uint16 tag", payload: []byte{0xcd, 0x01, 0x00}, want: 256},
		{name: "uint32 tag", payload: []byte{0xce, 0x00, 0x01, 0x00, 0x00}, want: 65536},
		{name: "empty", payload: []byte{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var header BlockHeader
			if err := header.UnmarshalMsgpack(tt.payload); err != nil {
				t.Fatalf("UnmarshalMsgpack() failed: %v", err)
			}
			if header.UncompressedSize != tt.want {
				t.Errorf("Expected size %d, got %d", tt.want, header.UncompressedSize)
			}
		})
	}
}

func TestBlockHeaderPreservesRawPayload(t *testing.T) {
	// A header written with a 0xcd tag must reserialize byte for byte, not
	// in this package's canonical 0xcc form.
	raw := []byte{0xcd, 0x01, 0x00}

	var header BlockHeader
	if err := header.UnmarshalMsgpack(raw); err != nil {
		t.Fatalf("UnmarshalMsgpack() failed: %v", err)
	}

	payload, err := header.MarshalMsgpack()
	if err != nil {
		t.Fatalf("MarshalMsgpack() failed: %v", err)
	}
	if !bytes.Equal(payload, raw) {
		t.Errorf("Expected %v, got %v", raw, payload)
	}
}

func TestBlockHeaderTooLong(t *testing.T) {
	var header BlockHeader
	err := header.UnmarshalMsgpack(make([]byte, 10))
	if !errors.Is(err, ErrMalformedEnvelope) {
		t.Errorf("Expected ErrMalformedEnvelope, got %v", err)
	}
}

func TestEnvelopeBinaryRoundTrip(t *testing.T) {
	envelope := Envelope{
		ExtType: ExtLZ4BlockArray,
		Header:  BlockHeader{UncompressedSize: 300},
		Data:    []byte{1, 2, 3, 4, 5},
	}

	packed, err := envelope.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() failed: %v", err)
	}
	if packed[0] != 0x92 {
		t.Errorf("Expected two element array marker 0x92, got 0x%02x", packed[0])
	}

	var parsed Envelope
	if err := parsed.UnmarshalBinary(packed); err != nil {
		t.Fatalf("UnmarshalBinary() failed: %v", err)
	}
	if parsed.ExtType != ExtLZ4BlockArray {
		t.Errorf("Expected extension type %d, got %d", ExtLZ4BlockArray, parsed.ExtType)
	}
	if parsed.Header.UncompressedSize != 300 {
		t.Errorf("Expected size 300, got %d", parsed.Header.UncompressedSize)
	}
	if !bytes.Equal(parsed.Data, envelope.Data) {
		t.Errorf("Expected data %v, got %v", envelope.Data, parsed.Data)
	}
}

func TestEnvelopeMarshalBinaryRejectsForeignType(t *testing.T) {
	envelope := Envelope{ExtType: 12, Data: []byte{1}}

	if _, err := envelope.MarshalBinary(); !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("Expected ErrUnsupportedExtension, got %v", err)
	}
}

func TestEnvelopeJSONForm(t *testing.T) {
	envelope := Envelope{
		ExtType: ExtLZ4BlockArray,
		Header:  BlockHeader{UncompressedSize: 10},
		Data:    []byte{1, 2, 3, 4, 5},
	}

	out, err := json.Marshal(&envelope)
	if err != nil {
		t.Fatalf("MarshalJSON() failed: %v", err)
	}
	want := `[{"buffer":{"type":"Buffer","data":[204,10]},"type":98},{"type":"Buffer","data":[1,2,3,4,5]}]`
	if string(out) != want {
		t.Errorf("Expected %s, got %s", want, out)
	}

	var parsed Envelope
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("UnmarshalJSON() failed: %v", err)
	}
	if parsed.ExtType != ExtLZ4BlockArray {
		t.Errorf("Expected extension type %d, got %d", ExtLZ4BlockArray, parsed.ExtType)
	}
	if parsed.Header.UncompressedSize != 10 {
		t.Errorf("Expected size 10, got %d", parsed.Header.UncompressedSize)
	}
	if !bytes.Equal(parsed.Data, envelope.Data) {
		t.Errorf("Expected data %v, got %v", envelope.Data, parsed.Data)
	}
}

func TestEnvelopeUnmarshalJSONTooFewElements(t *testing.T) {
	var envelope Envelope
	err := json.Unmarshal([]byte(`[{"buffer":{"type":"Buffer","data":[204,10]},"type":98}]`), &envelope)
	if !errors.Is(err, ErrMalformedEnvelope) {
		t.Errorf("Expected ErrMalformedEnvelope, got %v", err)
	}
}

func TestEnvelopeBinaryJSONAgree(t *testing.T) {
	input := []byte(`{"a":1,"b":[true,null,"x"]}`)
	transcoder := New()

	binaryEnvelope, err := transcoder.Transcode(input)
	if err != nil {
		t.Fatalf("Transcode() failed: %v", err)
	}
	jsonEnvelope, err := transcoder.TranscodeToJSON(input)
	if err != nil {
		t.Fatalf("TranscodeToJSON() failed: %v", err)
	}

	var fromJSON Envelope
	if err := json.Unmarshal(jsonEnvelope, &fromJSON); err != nil {
		t.Fatalf("UnmarshalJSON() failed: %v", err)
	}
	reserialized, err := fromJSON.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() failed: %v", err)
	}
	if !bytes.Equal(reserialized, binaryEnvelope) {
		t.Error("JSON and binary envelope forms disagree")
	}
}
