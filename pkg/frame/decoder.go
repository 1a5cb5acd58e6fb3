package frame

import (
	"encoding/json"
	"strings"
)

// LogPrefix starts a diagnostic line from the device.
const LogPrefix = "#!"

// TrimLine removes the line terminator.
func TrimLine(line []byte) string {
	return strings.TrimRight(string(line), "\r\n")
}

// IsValidFrame checks if line may be a reply: starts with '#' and has
// more than one character.
func IsValidFrame(line string) bool {
	return len(line) > 1 && line[0] == startMark
}

// IsLogLine checks if line is a diagnostic line with content.
func IsLogLine(line string) bool {
	return len(line) > len(LogPrefix) && strings.HasPrefix(line, LogPrefix)
}

// Parse decodes values between the first '[' and the first ']'.
func Parse(line string) (Reply, error) {
	start := strings.IndexByte(line, '[')
	if start < 0 {
		return nil, &ParseError{Line: line, Reason: "missing '['"}
	}
	end := strings.IndexByte(line, ']')
	if end < start {
		return nil, &ParseError{Line: line, Reason: "missing ']'"}
	}
	dec := json.NewDecoder(strings.NewReader(line[start : end+1]))
	dec.UseNumber()
	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, &ParseError{Line: line, Reason: err.Error()}
	}
	reply := make(Reply, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, &ParseError{Line: line, Reason: "not an integer: " + v.String()}
			}
			reply = append(reply, Int(n))
		case string:
			reply = append(reply, Str(v))
		default:
			return nil, &ParseError{Line: line, Reason: "unsupported element"}
		}
	}
	return reply, nil
}
