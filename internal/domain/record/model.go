package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a single measurement entry in a project's sheet. The backend
// manages the identifier, the sequence number, and the nested sub-records;
// every other field is opaque measurement data carried through verbatim.
type Record struct {
	ID     string
	Seq    SeqNum
	Sub    []Record
	Fields map[string]json.RawMessage
}

// SeqNum is an optional sequence number. Input of any JSON type is coerced
// to a base-10 integer; a value that does not parse becomes a null sentinel
// rather than an error.
type SeqNum struct {
	Set   bool
	Valid bool
	Value int64
}

// SeqOf returns a valid sequence number.
func SeqOf(v int64) SeqNum {
	return SeqNum{Set: true, Valid: true, Value: v}
}

// MarshalJSON writes the number, or null for the invalid sentinel.
func (s SeqNum) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(s.Value, 10)), nil
}

// UnmarshalJSON coerces any JSON value to a base-10 integer.
func (s *SeqNum) UnmarshalJSON(data []byte) error {
	*s = coerceSeq(data)
	return nil
}

func coerceSeq(raw json.RawMessage) SeqNum {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return SeqNum{Set: true, Valid: true, Value: n}
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return SeqNum{Set: true, Valid: true, Value: int64(f)}
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64); err == nil {
			return SeqNum{Set: true, Valid: true, Value: v}
		}
	}

	return SeqNum{Set: true, Valid: false}
}

// UnmarshalJSON decodes a record object, splitting the managed fields from
// the opaque ones. A non-string id is treated as missing so normalization
// can assign a fresh one.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Record{}
	for key, val := range raw {
		switch key {
		case "id":
			var id string
			if err := json.Unmarshal(val, &id); err == nil {
				out.ID = id
			}
		case "sn":
			out.Seq = coerceSeq(val)
		case "subRecords":
			var subs []Record
			if err := json.Unmarshal(val, &subs); err == nil && subs != nil {
				out.Sub = subs
				continue
			}
			// Not an array of records; carried through untouched.
			out.passThrough(key, val)
		default:
			out.passThrough(key, val)
		}
	}

	*r = out
	return nil
}

func (r *Record) passThrough(key string, val json.RawMessage) {
	if r.Fields == nil {
		r.Fields = make(map[string]json.RawMessage)
	}
	r.Fields[key] = val
}

// MarshalJSON writes the managed fields alongside the opaque ones. The
// result is a JSON object with keys in sorted order, so serialized trees
// are byte-stable across round-trips.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Fields)+3)
	for key, val := range r.Fields {
		out[key] = val
	}

	id, err := json.Marshal(r.ID)
	if err != nil {
		return nil, err
	}
	out["id"] = id

	if r.Seq.Set {
		sn, err := json.Marshal(r.Seq)
		if err != nil {
			return nil, err
		}
		out["sn"] = sn
	}

	if r.Sub != nil {
		subs, err := json.Marshal(r.Sub)
		if err != nil {
			return nil, err
		}
		out["subRecords"] = subs
	}

	return json.Marshal(out)
}
