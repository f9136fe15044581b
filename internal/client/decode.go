package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/erazemk/katalog/internal/model"
)

// Sequence is a decoded list response. Meta is set when the backend
// wrapped the items in an envelope that carried pagination.
type Sequence[T any] struct {
	Items []T
	Meta  *model.ListMeta
}

// DecodeList accepts either a bare JSON array or an envelope
// {"items": [...], "meta": {...}}. An envelope without items and a null
// body both decode to an empty sequence; any other shape is an error.
func DecodeList[T any](raw []byte) (Sequence[T], error) {
	var seq Sequence[T]
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return seq, fmt.Errorf("decoding list: empty response")
	}

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &seq.Items); err != nil {
			return Sequence[T]{}, fmt.Errorf("decoding list: %w", err)
		}
	case '{':
		var env struct {
			Items []T             `json:"items"`
			Meta  *model.ListMeta `json:"meta"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Sequence[T]{}, fmt.Errorf("decoding list envelope: %w", err)
		}
		seq.Items, seq.Meta = env.Items, env.Meta
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return seq, fmt.Errorf("decoding list: unexpected body %.32q", trimmed)
		}
	default:
		return seq, fmt.Errorf("decoding list: unexpected body %.32q", trimmed)
	}

	if seq.Items == nil {
		seq.Items = []T{}
	}
	return seq, nil
}
