package types

import (
	"encoding/json"
	"math"
)

// CellKind discriminates the dynamic value carried by a Cell.
type CellKind int

const (
	// CellEmpty is the zero value: a cell with no value to report.
	CellEmpty CellKind = iota
	CellInt
	CellFloat
	CellString
)

// Cell is a tagged variant standing in for the source's dynamic result
// value (std::any-typed detection fields). Exactly one of the typed
// fields is meaningful, selected by Kind.
type Cell struct {
	Kind CellKind
	I    int64
	F    float64
	S    string
}

func IntCell(v int64) Cell    { return Cell{Kind: CellInt, I: v} }
func FloatCell(v float64) Cell { return Cell{Kind: CellFloat, F: v} }
func StringCell(v string) Cell { return Cell{Kind: CellString, S: v} }

// roundTo4 matches the four-decimal-place rounding spec.md §9 requires for
// floating point cells in the JSON projection.
func roundTo4(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}

// MarshalJSON projects the tagged variant to plain JSON: a number or a
// string, or null for an empty/unrecognized kind.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellInt:
		return json.Marshal(c.I)
	case CellFloat:
		return json.Marshal(roundTo4(c.F))
	case CellString:
		return json.Marshal(c.S)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number or string and infers the Kind.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = Cell{Kind: CellEmpty}
	case string:
		*c = Cell{Kind: CellString, S: v}
	case float64:
		if v == math.Trunc(v) {
			*c = Cell{Kind: CellInt, I: int64(v)}
		} else {
			*c = Cell{Kind: CellFloat, F: v}
		}
	default:
		*c = Cell{Kind: CellEmpty}
	}
	return nil
}

// DetectionRow is one row of mixed-type detection output cells.
type DetectionRow []Cell
