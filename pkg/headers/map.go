package headers

import (
	"strings"
)

// Value is the value of one header name: a scalar when the name arrived once,
// an ordered list when it arrived several times
type Value struct {
	values []string
}

// IsList reports whether the header name was received more than once
func (v Value) IsList() bool {
	return len(v.values) > 1
}

// String returns the scalar value, or the first value of a list
func (v Value) String() string {
	if len(v.values) == 0 {
		return ""
	}
	return v.values[0]
}

// Values returns every value in arrival order
func (v Value) Values() []string {
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}

// Interface returns a string for scalar values and a []string for lists
func (v Value) Interface() any {
	if v.IsList() {
		return v.Values()
	}
	return v.String()
}

// Header represents a single HTTP header
type Header struct {
	Name  string
	Value string
}

// Map is the read-only header mapping of one exchange. Names keep the case they
// were received in; duplicate names collapse into a list in arrival order.
type Map struct {
	order  []string // First-seen order of names
	values map[string][]string
	all    []Header // Every line in arrival order
}

// NewMap builds a Map from header lines of the form name:value. The name is
// everything before the first colon, verbatim; the value is trimmed.
// Lines without a colon are skipped.
func NewMap(lines []string) Map {
	m := Map{
		order:  make([]string, 0, len(lines)),
		values: make(map[string][]string, len(lines)),
		all:    make([]Header, 0, len(lines)),
	}

	for _, line := range lines {
		colonPos := strings.IndexByte(line, ':')
		if colonPos == -1 {
			continue
		}
		name := line[:colonPos]
		value := strings.TrimSpace(line[colonPos+1:])

		if _, exists := m.values[name]; !exists {
			m.order = append(m.order, name)
		}
		m.values[name] = append(m.values[name], value)
		m.all = append(m.all, Header{Name: name, Value: value})
	}

	return m
}

// Lookup returns the value stored under exactly name
func (m Map) Lookup(name string) (Value, bool) {
	values, ok := m.values[name]
	if !ok {
		return Value{}, false
	}
	return Value{values: values}, true
}

// LookupFold is Lookup with a case-insensitive name match. When differently-cased
// spellings were received, the first one seen wins.
func (m Map) LookupFold(name string) (Value, bool) {
	if v, ok := m.Lookup(name); ok {
		return v, true
	}
	for _, n := range m.order {
		if strings.EqualFold(n, name) {
			return Value{values: m.values[n]}, true
		}
	}
	return Value{}, false
}

// Get retrieves a header value (case-insensitive); the first one for lists
func (m Map) Get(name string) string {
	v, _ := m.LookupFold(name)
	return v.String()
}

// Values retrieves every value of a header (case-insensitive)
func (m Map) Values(name string) []string {
	v, ok := m.LookupFold(name)
	if !ok {
		return nil
	}
	return v.Values()
}

// Has checks if a header exists (case-insensitive)
func (m Map) Has(name string) bool {
	_, ok := m.LookupFold(name)
	return ok
}

// Names returns the header names in first-seen order
func (m Map) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of distinct header names
func (m Map) Len() int {
	return len(m.order)
}

// All returns every header line in arrival order
func (m Map) All() []Header {
	out := make([]Header, len(m.all))
	copy(out, m.all)
	return out
}

// ToMap renders the mapping with string values for unique names and []string
// values for repeated ones
func (m Map) ToMap() map[string]any {
	out := make(map[string]any, len(m.order))
	for _, name := range m.order {
		out[name] = Value{values: m.values[name]}.Interface()
	}
	return out
}
