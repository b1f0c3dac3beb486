package errors

import (
	"math"
	"testing"
)

func TestValidateIndex(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		count   int
		wantErr bool
	}{
		{"first", 0, 5, false},
		{"last", 4, 5, false},
		{"negative", -1, 5, true},
		{"past end", 5, 5, true},
		{"empty sequence", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndex("exposed", tt.index, tt.count)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIndex(%d, %d) error = %v, wantErr %v", tt.index, tt.count, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidIndex) {
				t.Errorf("ValidateIndex error code = %v, want %v", GetCode(err), ErrCodeInvalidIndex)
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	if err := ValidateCount(0); err != nil {
		t.Errorf("zero count should be valid: %v", err)
	}
	if err := ValidateCount(-3); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("negative count error = %v, want %v", err, ErrCodeInvalidInput)
	}
}

func TestValidateLength(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 120, false},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLength("reveal", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLength(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnit(t *testing.T) {
	tests := []struct {
		input   float64
		wantErr bool
	}{
		{0, false},
		{0.2, false},
		{1, false},
		{-0.1, true},
		{1.5, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateUnit("bounce factor", tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateUnit(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("bottom overlap count", 0); err != nil {
		t.Errorf("zero should be valid: %v", err)
	}
	if err := ValidateNonNegative("bottom overlap count", -1); !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("negative error = %v, want %v", err, ErrCodeInvalidConfig)
	}
}
