package utils

import (
	"encoding/json"
	"strings"
)

// IDsToString converts []string to JSON string (safe for DB)
func IDsToString(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// StringToIDs converts DB string back to []string
func StringToIDs(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		// Fallback: treat as comma-separated if invalid JSON
		return strings.Split(s, ",")
	}
	return ids
}

// AppendUnique appends id unless it is already present, keeping order.
func AppendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Remove drops every occurrence of id.
func Remove(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
