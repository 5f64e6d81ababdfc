package unit

import "encoding/json"

// ValueKind discriminates the payload carried by a metadata Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueStringList
	ValueInt
	ValueBool
	ValueMap
)

// Value is a tagged union over the value shapes extractors emit: a string,
// a set of strings, an integer, a boolean, or a nested mapping. Each kind's
// metadata key set is fixed and documented on its extractor, so consumers
// can rely on the kind of every key.
type Value struct {
	kind ValueKind
	str  string
	strs []string
	num  int
	b    bool
	m    map[string]Value
}

// Metadata maps documented, kind-specific keys to typed values.
type Metadata map[string]Value

func String(s string) Value        { return Value{kind: ValueString, str: s} }
func StringList(s []string) Value  { return Value{kind: ValueStringList, strs: s} }
func Int(n int) Value              { return Value{kind: ValueInt, num: n} }
func Bool(b bool) Value            { return Value{kind: ValueBool, b: b} }
func Map(m map[string]Value) Value { return Value{kind: ValueMap, m: m} }

// Kind returns the discriminator of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload ("" when the value is not a string).
func (v Value) Str() string { return v.str }

// Strs returns the string-list payload (nil when the value is not a list).
func (v Value) Strs() []string { return v.strs }

// Num returns the integer payload (0 when the value is not an integer).
func (v Value) Num() int { return v.num }

// Flag returns the boolean payload (false when the value is not a boolean).
func (v Value) Flag() bool { return v.b }

// Nested returns the nested-map payload (nil when the value is not a map).
func (v Value) Nested() map[string]Value { return v.m }

// MarshalJSON renders the payload as its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueStringList:
		if v.strs == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.strs)
	case ValueInt:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.b)
	case ValueMap:
		if v.m == nil {
			return json.Marshal(map[string]Value{})
		}
		return json.Marshal(v.m)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON reconstructs the tagged union from its JSON shape. Numbers
// are read back as integers, which is the only numeric shape extractors emit.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case bool:
		*v = Bool(t)
	case float64:
		*v = Int(int(t))
	case []any:
		strs := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				strs = append(strs, s)
			}
		}
		*v = StringList(strs)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			sub, err := json.Marshal(e)
			if err != nil {
				return err
			}
			var val Value
			if err := val.UnmarshalJSON(sub); err != nil {
				return err
			}
			m[k] = val
		}
		*v = Map(m)
	default:
		*v = String("")
	}
	return nil
}
