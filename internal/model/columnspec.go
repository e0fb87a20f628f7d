package model

import (
	"bytes"
	"encoding/json"
)

// SpecKind tags the shape a server used for its column descriptor.
type SpecKind int

const (
	SpecNone SpecKind = iota
	SpecStrings
	SpecPairs
	SpecMapping
)

func (k SpecKind) String() string {
	switch k {
	case SpecStrings:
		return "strings"
	case SpecPairs:
		return "pairs"
	case SpecMapping:
		return "mapping"
	default:
		return "none"
	}
}

// ColumnPair is one key/label entry of a descriptor. Label may be empty when
// the server only sent keys.
type ColumnPair struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
}

// ColumnSpec is the server-supplied column descriptor resolved at the API
// boundary. Every shape is kept as ordered pairs; Kind records which shape
// arrived so callers can tell a bare key list from labelled entries.
type ColumnSpec struct {
	Kind  SpecKind
	Pairs []ColumnPair
}

func StringsSpec(keys ...string) ColumnSpec {
	pairs := make([]ColumnPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, ColumnPair{Key: k})
	}
	return ColumnSpec{Kind: SpecStrings, Pairs: pairs}
}

func PairsSpec(pairs ...ColumnPair) ColumnSpec {
	return ColumnSpec{Kind: SpecPairs, Pairs: append([]ColumnPair(nil), pairs...)}
}

func MappingSpec(pairs ...ColumnPair) ColumnSpec {
	return ColumnSpec{Kind: SpecMapping, Pairs: append([]ColumnPair(nil), pairs...)}
}

// Empty reports whether the descriptor carries no usable entry.
func (s ColumnSpec) Empty() bool { return s.Kind == SpecNone || len(s.Pairs) == 0 }

// UnmarshalJSON never fails: anything it cannot read becomes an empty spec so
// the caller falls back to deriving columns from the data.
func (s *ColumnSpec) UnmarshalJSON(b []byte) error {
	*s = ColumnSpec{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '[':
		s.decodeArray(b)
	case '{':
		s.decodeObject(b)
	}
	return nil
}

func (s *ColumnSpec) decodeArray(b []byte) {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil || len(items) == 0 {
		return
	}
	first := bytes.TrimSpace(items[0])
	if len(first) > 0 && first[0] == '"' {
		for _, it := range items {
			var k string
			if err := json.Unmarshal(it, &k); err != nil || k == "" {
				continue
			}
			s.Pairs = append(s.Pairs, ColumnPair{Key: k})
		}
		if len(s.Pairs) > 0 {
			s.Kind = SpecStrings
		}
		return
	}
	for _, it := range items {
		var p ColumnPair
		if err := json.Unmarshal(it, &p); err != nil || p.Key == "" {
			continue
		}
		s.Pairs = append(s.Pairs, p)
	}
	if len(s.Pairs) > 0 {
		s.Kind = SpecPairs
	}
}

// decodeObject walks the object token by token to keep insertion order,
// which a map would lose.
func (s *ColumnSpec) decodeObject(b []byte) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return
	}
	var pairs []ColumnPair
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return
		}
		key, ok := kt.(string)
		if !ok {
			return
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return
		}
		var label string
		_ = json.Unmarshal(raw, &label)
		if key == "" {
			continue
		}
		pairs = append(pairs, ColumnPair{Key: key, Label: label})
	}
	if len(pairs) > 0 {
		s.Kind = SpecMapping
		s.Pairs = pairs
	}
}

// MarshalJSON writes the descriptor back in the shape it was received in.
func (s ColumnSpec) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SpecStrings:
		keys := make([]string, 0, len(s.Pairs))
		for _, p := range s.Pairs {
			keys = append(keys, p.Key)
		}
		return json.Marshal(keys)
	case SpecPairs:
		return json.Marshal(s.Pairs)
	case SpecMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, p := range s.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(p.Key)
			v, _ := json.Marshal(p.Label)
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}
