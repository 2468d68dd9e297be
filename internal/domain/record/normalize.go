package record

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

// IDFunc generates record identifiers. NewID is the production generator;
// tests substitute deterministic ones.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// ParseTree decodes an arbitrary JSON value claimed to be a record array.
// Anything that is not an array of record objects degrades to an empty
// tree; malformed input never yields an error.
func ParseTree(raw json.RawMessage) []Record {
	if len(raw) == 0 {
		return []Record{}
	}
	var recs []Record
	if err := json.Unmarshal(raw, &recs); err != nil || recs == nil {
		return []Record{}
	}
	return recs
}

// Normalize makes a record tree well-formed: every record down the tree
// gets a non-empty id (generated by newID when missing), and each sibling
// level is sorted by id using lexicographic string comparison. Elements are
// never added or dropped, and applying Normalize to its own output is a
// no-op.
func Normalize(recs []Record, newID IDFunc) []Record {
	for i := range recs {
		if recs[i].ID == "" {
			recs[i].ID = newID()
		}
		if recs[i].Sub != nil {
			recs[i].Sub = Normalize(recs[i].Sub, newID)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ID < recs[j].ID
	})

	return recs
}

// NormalizeTree parses and normalizes raw JSON in one step.
func NormalizeTree(raw json.RawMessage, newID IDFunc) []Record {
	return Normalize(ParseTree(raw), newID)
}
