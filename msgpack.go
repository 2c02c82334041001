package lz4msgpack

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// marshalValue encodes a parsed value tree as MessagePack. Objects encode as
// maps with members in document order, numbers as int64 or float64.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeValue(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *msgpack.Encoder, v any) error {
	switch x := v.(type) {
	case nil:
		return enc.EncodeNil()
	case bool:
		return enc.EncodeBool(x)
	case int64:
		return enc.EncodeInt(x)
	case float64:
		return enc.EncodeFloat64(x)
	case string:
		return enc.EncodeString(x)
	case []any:
		if err := enc.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for _, item := range x {
			if err := encodeValue(enc, item); err != nil {
				return err
			}
		}
		return nil
	case Map:
		if err := enc.EncodeMapLen(len(x)); err != nil {
			return err
		}
		for _, mem := range x {
			if err := enc.EncodeString(mem.Key); err != nil {
				return err
			}
			if err := encodeValue(enc, mem.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported value type %T", v)
}

// unmarshalValue decodes MessagePack into a value tree, keeping map entry
// order. The result uses the same value types marshalValue accepts, plus
// byteList for bin payloads.
func unmarshalValue(data []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return v, nil
}

func decodeValue(dec *msgpack.Decoder) (any, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		return decodeMap(dec)
	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		return decodeArray(dec)
	case code == msgpcode.Nil:
		return nil, dec.DecodeNil()
	case code == msgpcode.False, code == msgpcode.True:
		return dec.DecodeBool()
	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16,
		code == msgpcode.Int32, code == msgpcode.Int64:
		return dec.DecodeInt64()
	case code == msgpcode.Uint8, code == msgpcode.Uint16,
		code == msgpcode.Uint32, code == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return nil, err
		}
		if u <= math.MaxInt64 {
			return int64(u), nil
		}
		return u, nil
	case code == msgpcode.Float:
		f, err := dec.DecodeFloat32()
		if err != nil {
			return nil, err
		}
		return float64(f), nil
	case code == msgpcode.Double:
		return dec.DecodeFloat64()
	case msgpcode.IsFixedString(code),
		code == msgpcode.Str8, code == msgpcode.Str16, code == msgpcode.Str32:
		return dec.DecodeString()
	case code == msgpcode.Bin8, code == msgpcode.Bin16, code == msgpcode.Bin32:
		b, err := dec.DecodeBytes()
		if err != nil {
			return nil, err
		}
		return byteList(b), nil
	}

	// Extensions and anything else go through the generic decoder, which
	// resolves registered extension types such as BlockHeader.
	return dec.DecodeInterfaceLoose()
}

func decodeMap(dec *msgpack.Decoder) (any, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	obj := make(Map, 0, n)
	for i := 0; i < n; i++ {
		key, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		// Non-string keys have no JSON counterpart and are dropped.
		if s, ok := key.(string); ok {
			obj = append(obj, Member{Key: s, Value: value})
		}
	}
	return obj, nil
}

func decodeArray(dec *msgpack.Decoder) (any, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	arr := make([]any, 0, n)
	for i := 0; i < n; i++ {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	return arr, nil
}
