package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"positive amount", "100.50", nil},
		{"one minor unit", "0.01", nil},
		{"zero", "0", ErrInvalidAmount},
		{"negative", "-5", ErrInvalidAmount},
		{"too large", "1000000000001", ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("bad test amount: %v", err)
			}

			err = ValidateAmount(amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("rent"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateDescription(""); err != nil {
		t.Errorf("empty description should be allowed: %v", err)
	}

	long := make([]byte, MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateDescription(string(long)); !errors.Is(err, ErrDescriptionTooLong) {
		t.Errorf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@sub.domain.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q valid, got %v", email, err)
		}
	}

	invalid := []string{"", "user", "user@", "@example.com", "user@example"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("expected %q invalid", email)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("alice_42"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateUsername("ab"); err == nil {
		t.Error("expected too-short username rejected")
	}

	if err := ValidateUsername("has spaces"); err == nil {
		t.Error("expected username with spaces rejected")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Str0ngpass"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	weak := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoNumbersHere"}
	for _, pw := range weak {
		if err := ValidatePassword(pw); !errors.Is(err, ErrPasswordTooWeak) {
			t.Errorf("expected %q rejected as weak, got %v", pw, err)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults 50/0, got %d/%d", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("expected limit capped at 1000, got %d", limit)
	}
}
