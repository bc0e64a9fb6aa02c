package kv

import "encoding/json"

// --------------------------------------------------------------------------
// Value Codecs
// --------------------------------------------------------------------------

// codec translates between a view's value type and the text representation
// stored in the value column. The string view uses the identity codec, the
// JSON view transcodes on every read and write. The codec is the only thing
// that differs between the two views; everything else is shared.
type codec[V any] interface {
	Encode(value V) (string, error)
	Decode(raw string) (V, error)
}

// stringCodec stores text as-is.
type stringCodec struct{}

func (stringCodec) Encode(value string) (string, error) {
	return value, nil
}

func (stringCodec) Decode(raw string) (string, error) {
	return raw, nil
}

// jsonCodec stores values in their canonical JSON text form. Decoded values
// follow encoding/json's defaults for untyped data: map[string]any for
// objects, []any for arrays, float64 for numbers.
type jsonCodec struct{}

func (jsonCodec) Encode(value any) (string, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (jsonCodec) Decode(raw string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	return value, nil
}
