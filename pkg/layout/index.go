package layout

import "strconv"

// Index is an optional item index. The zero value is [NoIndex].
type Index struct {
	value int
	set   bool
}

// NoIndex is the absent index.
var NoIndex = Index{}

// IndexOf returns an Index holding i.
func IndexOf(i int) Index { return Index{value: i, set: true} }

// Get returns the index and whether it is present.
func (x Index) Get() (int, bool) { return x.value, x.set }

// IsSet reports whether an index is present.
func (x Index) IsSet() bool { return x.set }

// Is reports whether x holds exactly i.
func (x Index) Is(i int) bool { return x.set && x.value == i }

// String returns the index in decimal, or "none".
func (x Index) String() string {
	if !x.set {
		return "none"
	}
	return strconv.Itoa(x.value)
}

// MarshalJSON encodes the index as a number, or null when absent.
func (x Index) MarshalJSON() ([]byte, error) {
	if !x.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(x.value)), nil
}

// UnmarshalJSON decodes a number or null.
func (x *Index) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*x = NoIndex
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*x = IndexOf(v)
	return nil
}
