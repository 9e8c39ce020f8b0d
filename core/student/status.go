// Package student maps loosely-typed student application payloads coming from
// external account services into well-defined values. Malformed input never
// raises an error here; it degrades to documented fallbacks.
package student

import (
	"fmt"
	"strings"
)

// Status is the application-lifecycle state of a student account.
type Status string

const (
	StatusIncomplete Status = "INCOMPLETE"
	StatusPending    Status = "PENDING"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
)

// Student is the normalized shape of a student record.
type Student struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Status Status `json:"status"`
}

// NormalizeStatus maps the raw server representation of an approval field -
// which may arrive as a bool or a string - to a Status. The second return
// value is false when the fallback (StatusPending) was applied because the
// input was not recognized.
func NormalizeStatus(raw interface{}) (Status, bool) {
	switch v := raw.(type) {
	case bool:
		if v {
			return StatusApproved, true
		}
		return StatusPending, true
	case string:
		switch Status(strings.ToUpper(strings.TrimSpace(v))) {
		case StatusIncomplete:
			return StatusIncomplete, true
		case StatusPending:
			return StatusPending, true
		case StatusApproved:
			return StatusApproved, true
		case StatusRejected:
			return StatusRejected, true
		}
	}
	return StatusPending, false
}

// idFields are the source field names a student id may arrive under,
// checked in order.
var idFields = []string{"id", "student_id", "user_id"}

// MapStudentResponse extracts a Student from a raw payload. It returns nil
// when no usable id is found; callers must treat nil as a valid "not a
// student record" outcome, not an error.
func MapStudentResponse(raw map[string]interface{}) *Student {
	if raw == nil {
		return nil
	}

	var id string
	for _, field := range idFields {
		if coerced, ok := coerceID(raw[field]); ok {
			id = coerced
			break
		}
	}
	if id == "" {
		return nil
	}

	status, _ := NormalizeStatus(raw["status"])
	s := &Student{ID: id, Status: status}
	if name, ok := raw["name"].(string); ok {
		s.Name = strings.TrimSpace(name)
	}
	if email, ok := raw["email"].(string); ok {
		s.Email = strings.TrimSpace(email)
	}
	return s
}

// coerceID turns a string or numeric id into its string form.
func coerceID(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return "", false
		}
		return v, true
	case float64: // encoding/json decodes numbers into float64
		if v != float64(int64(v)) {
			return "", false
		}
		return fmt.Sprintf("%d", int64(v)), true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	}
	return "", false
}
