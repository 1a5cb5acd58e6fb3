package frame

import (
	"fmt"
	"strconv"
)

// Value is either an integer or a string, used as command argument
// and as reply element.
type Value struct {
	str  bool
	num  int64
	text string
}

// Int creates an integer Value.
func Int(v int64) Value {
	return Value{num: v}
}

// Str creates a string Value.
func Str(s string) Value {
	return Value{str: true, text: s}
}

// ValueOf converts a Go integer or string into a Value.
// Any other type (e.g. float64) is rejected with a ValidationError.
func ValueOf(v interface{}) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case string:
		return Str(x), nil
	}
	return Value{}, &ValidationError{Reason: fmt.Sprintf("Unsupported argument type %T", v)}
}

// ValuesOf converts a list of Go values with ValueOf.
func ValuesOf(vals ...interface{}) ([]Value, error) {
	res := make([]Value, len(vals))
	for n, v := range vals {
		val, err := ValueOf(v)
		if err != nil {
			return nil, err
		}
		res[n] = val
	}
	return res, nil
}

// IsStr indicates the Value holds a string.
func (v Value) IsStr() bool {
	return v.str
}

// Int64 returns the integer, 0 for strings.
func (v Value) Int64() int64 {
	return v.num
}

// Text returns the string, empty for integers.
func (v Value) Text() string {
	return v.text
}

// Interface returns the value as int64 or string.
func (v Value) Interface() interface{} {
	if v.str {
		return v.text
	}
	return v.num
}

// String implements fmt.Stringer using the wire rendering.
func (v Value) String() string {
	if v.str {
		return `"` + v.text + `"`
	}
	return strconv.FormatInt(v.num, 10)
}

// Reply is the decoded list of values from a reply line.
// The first element is the status code.
type Reply []Value

// Status returns the status code, ok is false if the reply doesn't
// start with an integer.
func (r Reply) Status() (code int64, ok bool) {
	if len(r) == 0 || r[0].IsStr() {
		return 0, false
	}
	return r[0].Int64(), true
}

// Message returns the second element if it's a string.
func (r Reply) Message() string {
	if len(r) > 1 && r[1].IsStr() {
		return r[1].Text()
	}
	return ""
}
