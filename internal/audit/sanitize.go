package audit

import (
	"encoding/json"
	"strings"
)

// sensitiveFields are matched as case-insensitive substrings of map keys.
// Any key containing one of these is replaced wholesale.
var sensitiveFields = []string{
	"password",
	"passwordhash",
	"token",
	"jwt",
	"secret",
	"apikey",
	"authorization",
}

const redactedPlaceholder = "[REDACTED]"

// maxBodyBytes caps the serialized request body stored per record.
const maxBodyBytes = 10000

// Sanitize walks a decoded JSON value and replaces every value whose key
// matches a sensitive field with a placeholder. Nested objects and arrays
// are walked recursively; scalars pass through unchanged.
func Sanitize(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitiveKey(key) {
				out[key] = redactedPlaceholder
				continue
			}
			out[key] = Sanitize(value)
		}

		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = Sanitize(item)
		}

		return out
	default:
		return data
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}

	return false
}

// SanitizeBody decodes a raw JSON request body, redacts it, enforces the
// size cap and re-encodes. Bodies that are not valid JSON objects or
// arrays are dropped entirely rather than stored unredacted. Oversized
// bodies are replaced with a truncation marker recording the original
// size.
func SanitizeBody(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}

	switch decoded.(type) {
	case map[string]interface{}, []interface{}:
	default:
		return nil
	}

	clean, err := json.Marshal(Sanitize(decoded))
	if err != nil {
		return nil
	}

	if len(clean) > maxBodyBytes {
		marker, _ := json.Marshal(map[string]interface{}{
			"_truncated": true,
			"_size":      len(clean),
			"_message":   "Request body too large, truncated",
		})

		return marker
	}

	return clean
}
