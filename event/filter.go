package event

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// JSONFilter returns a filter that allows delivery only when the payload is
// JSON ([]byte, json.RawMessage, or string) and the value at the gjson path
// matches want. Non-JSON payloads are rejected.
func JSONFilter(path string, want string) FilterFunc {
	return func(payload any) bool {
		raw, ok := jsonBytes(payload)
		if !ok {
			return false
		}
		res := gjson.GetBytes(raw, path)
		return res.Exists() && res.String() == want
	}
}

// JSONExists returns a filter that allows delivery only when the payload is
// JSON and the gjson path resolves to a value.
func JSONExists(path string) FilterFunc {
	return func(payload any) bool {
		raw, ok := jsonBytes(payload)
		if !ok {
			return false
		}
		return gjson.GetBytes(raw, path).Exists()
	}
}

func jsonBytes(payload any) ([]byte, bool) {
	switch p := payload.(type) {
	case []byte:
		return p, true
	case json.RawMessage:
		return p, true
	case string:
		return []byte(p), true
	default:
		return nil, false
	}
}
