package handler

import (
	"strings"
	"testing"
)

func TestValidator_Phone(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		phone string
		ok    bool
	}{
		{"+55 11 99999-0001", true},
		{"11999990001", true},
		{"1234567", false},
		{"+1234567890123456", false},
		{"not a phone", false},
	}
	for _, tc := range tests {
		err := v.Validate(&requestCodeRequest{Phone: tc.phone, Intent: "LOGIN"})
		if (err == nil) != tc.ok {
			t.Errorf("phone %q: expected ok=%v, got %v", tc.phone, tc.ok, err)
		}
	}
}

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	err := NewValidator().Validate(&submitCaseRequest{Fines: []fineRequest{{Points: -1}}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "type is required") {
		t.Errorf("missing type message: %s", msg)
	}
	if !strings.Contains(msg, "points must be at least 0") {
		t.Errorf("missing points message: %s", msg)
	}
}
