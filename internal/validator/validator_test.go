package validator

import (
	"errors"
	"testing"
)

func TestValidator_PhoneRule(t *testing.T) {
	v := New()

	type form struct {
		Phone string `validate:"required,phone"`
	}

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"plain", "+77011112233", true},
		{"spaces and dashes", "+7 701 111-22-33", true},
		{"parentheses", "8 (705) 123 45 67", true},
		{"no plus", "77011112233", true},
		{"too short", "+7701", false},
		{"letters", "+7701abc2233", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(form{Phone: tt.phone})
			if tt.valid && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.phone, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to be rejected", tt.phone)
			}
		})
	}
}

func TestValidator_LeadCreateRequest(t *testing.T) {
	v := New()

	err := v.Validate(LeadCreateRequest{Name: "A", Phone: "bad", Course: ""})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field] = fe.Rule
	}
	if fields["Name"] != "min" {
		t.Errorf("expected Name to fail min, got %q", fields["Name"])
	}
	if fields["Phone"] != "phone" {
		t.Errorf("expected Phone to fail phone, got %q", fields["Phone"])
	}
	if fields["Course"] != "required" {
		t.Errorf("expected Course to fail required, got %q", fields["Course"])
	}

	if err := v.Validate(LeadCreateRequest{Name: "Aruzhan", Phone: "+77011112233", Course: "IELTS"}); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	one := ValidationErrors{{Field: "Email", Rule: "email", Message: "must be a valid email"}}
	if got := one.Error(); got != "validation failed: Email must be a valid email" {
		t.Errorf("unexpected single-error message: %q", got)
	}

	many := ValidationErrors{{Field: "A"}, {Field: "B"}}
	if got := many.Error(); got != "validation failed: 2 field errors" {
		t.Errorf("unexpected multi-error message: %q", got)
	}
}
