package frame

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	require.Equal(t, byte(0xf4), Checksum([]byte("123456789")))
	require.Equal(t, byte(0), Checksum(nil))
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name   string
		opcode string
		args   []Value
		expect string
	}{
		{"single int", "e", []Value{Int(0)}, "#e[0]:0092\r\n"},
		{"no args", "r", nil, "#r:00d3\r\n"},
		{"mixed", "e", []Value{Int(0), Int(1), Str("test")}, "#e[0,1,\"test\"]:008a\r\n"},
		{"raw equivalent", "t", []Value{Int(50)}, "#t[50]:0026\r\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewEncoder().Encode(tc.opcode, tc.args...)
			require.NoError(t, err)
			require.Equal(t, tc.expect, string(f))
			require.Equal(t, strings.TrimSuffix(tc.expect, "\r\n"), f.String())
		})
	}
}

func TestEncodeRaw(t *testing.T) {
	enc := NewEncoder()
	f, err := enc.EncodeRaw("t[50]")
	require.NoError(t, err)
	require.Equal(t, "#t[50]:0026\r\n", string(f))
	require.Equal(t, byte(1), enc.Counter())

	_, err = enc.EncodeRaw(strings.Repeat("a", 60))
	require.IsType(t, &ValidationError{}, err)
	require.Contains(t, err.Error(), "too long")
	require.Equal(t, byte(1), enc.Counter())
}

func TestEncodeRenderedArgs(t *testing.T) {
	testCases := []struct {
		name   string
		args   []Value
		expect string
	}{
		{"special chars", []Value{Str("test@#$")}, `"test@#$"`},
		{"empty string", []Value{Str("")}, `""`},
		{"large int", []Value{Int(999999)}, "999999"},
		{"negative int", []Value{Int(-42)}, "-42"},
		{"max args", []Value{Int(1), Int(2), Int(3), Int(4), Int(5), Int(6), Int(7), Int(8), Int(9), Int(10), Int(11), Int(12)}, "[1,2,3,4,5,6,7,8,9,10,11,12]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewEncoder().Encode("s", tc.args...)
			require.NoError(t, err)
			require.Contains(t, f.String(), tc.expect)
		})
	}
}

func TestEncodeValidation(t *testing.T) {
	many := make([]Value, 13)
	for n := range many {
		many[n] = Int(int64(n))
	}
	testCases := []struct {
		name   string
		opcode string
		args   []Value
		reason string
	}{
		{"empty opcode", "", nil, "one character"},
		{"long opcode", "abc", []Value{Int(0)}, "one character"},
		{"bad opcode", "%", []Value{Int(0)}, "Invalid opcode"},
		{"space opcode", " ", nil, "Invalid opcode"},
		{"too many args", "e", many, "Too many arguments"},
		{"too many strings", "e", []Value{Str("first"), Str("second")}, "Too many strings"},
		{"too long", "e", []Value{Str(strings.Repeat("x", 50))}, "too long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			enc := NewEncoder()
			_, err := enc.Encode(tc.opcode, tc.args...)
			require.Error(t, err)
			require.IsType(t, &ValidationError{}, err)
			require.Contains(t, err.Error(), tc.reason)
			require.Equal(t, byte(0), enc.Counter())
		})
	}
}

func TestValidOpcodes(t *testing.T) {
	enc := NewEncoder()
	for _, op := range []string{"a", "z", "A", "Z", "0", "5", "9", "?"} {
		_, err := enc.Encode(op, Int(0))
		require.NoError(t, err, op)
	}
	for c := 0; c < 256; c++ {
		valid := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '?'
		require.Equal(t, valid, IsValidOpcode(byte(c)), "opcode %q", c)
	}
}

func TestFrameLengthBoundary(t *testing.T) {
	// #s["..."]:ccrr is 11 characters around the string
	f, err := NewEncoder().Encode("s", Str(strings.Repeat("x", 47)))
	require.NoError(t, err)
	require.Len(t, f.String(), MaxFrameLen)

	_, err = NewEncoder().Encode("s", Str(strings.Repeat("x", 48)))
	require.IsType(t, &ValidationError{}, err)
}

func TestCounter(t *testing.T) {
	enc := NewEncoder()
	f1, err := enc.Encode("e", Int(0))
	require.NoError(t, err)
	f2, err := enc.Encode("e", Int(0))
	require.NoError(t, err)
	require.Contains(t, f1.String(), ":00")
	require.Contains(t, f2.String(), ":01")

	enc.SetCounter(253)
	_, err = enc.Encode("e", Int(0))
	require.NoError(t, err)
	require.Equal(t, byte(254), enc.Counter())
	f, err := enc.Encode("e", Int(0))
	require.NoError(t, err)
	require.Contains(t, f.String(), ":fe")
	require.Equal(t, byte(0), enc.Counter())
}

func TestCounterCycle(t *testing.T) {
	enc := NewEncoder()
	enc.SetCounter(7)
	for n := 0; n < 600; n++ {
		f, err := enc.Encode("r")
		require.NoError(t, err)
		s := f.String()
		require.Equal(t, byte('#'), s[0])
		require.Equal(t, byte(':'), s[2])
		require.Len(t, s, 7)
		require.Equal(t, byte((7+n+1)%CounterModulo), enc.Counter())
	}
}

func TestChecksumConsistency(t *testing.T) {
	enc := NewEncoder()
	f1, err := enc.Encode("e", Int(0))
	require.NoError(t, err)
	enc.SetCounter(0)
	f2, err := enc.Encode("e", Int(0))
	require.NoError(t, err)
	require.Equal(t, f1, f2)
}
