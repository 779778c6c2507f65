package services

import (
	"testing"

	"shop-telegram/models"
)

func strPtr(s string) *string { return &s }

func TestStepFor(t *testing.T) {
	tests := []struct {
		name     string
		order    models.Order
		want     Step
	}{
		{"empty order", models.Order{}, StepAwaitingName},
		{"name set", models.Order{UserName: strPtr("Burxon")}, StepAwaitingPhone},
		{"name and phone set", models.Order{UserName: strPtr("Burxon"), UserPhone: strPtr("+998901234567")}, StepAwaitingLocation},
		{"fully populated", models.Order{UserName: strPtr("Burxon"), UserPhone: strPtr("+998901234567"), Location: strPtr("45.0,45.0")}, StepAwaitingConfirm},
		// Phone without name still asks for the name first.
		{"phone only", models.Order{UserPhone: strPtr("+998901234567")}, StepAwaitingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepFor(&tt.order); got != tt.want {
				t.Errorf("StepFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsIncomplete(t *testing.T) {
	full := models.Order{UserName: strPtr("a b"), UserPhone: strPtr("123456789"), Location: strPtr("1.0,2.0")}
	if IsIncomplete(&full) {
		t.Error("fully populated order should not be incomplete")
	}
	for _, o := range []models.Order{
		{},
		{UserName: strPtr("a b")},
		{UserName: strPtr("a b"), UserPhone: strPtr("123456789")},
		{UserPhone: strPtr("123456789"), Location: strPtr("1.0,2.0")},
	} {
		if !IsIncomplete(&o) {
			t.Errorf("order %+v should be incomplete", o)
		}
	}
	// A fully populated order is exactly AwaitingConfirm, never a loop back.
	if StepFor(&full) != StepAwaitingConfirm {
		t.Error("fully populated order must reach AwaitingConfirm")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Burxon Nurmurodov", "Burxon Nurmurodov", false},
		{"  Al  ", "Al", false},
		{"Ёж", "Ёж", false}, // two runes, not two bytes
		{"A", "", true},
		{" A ", "", true},
		{"", "", true},
		{"   ", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !IsValidation(err) {
				t.Errorf("ValidateName(%q) error should be a ValidationError, got %T", tt.in, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"+998(98)765-43-21", false},
		{"998 98 765 43 21", false},
		{"123456789", false},
		{"12345678", true}, // too short
		{"abc", true},
		{"+99890abc4567", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ValidatePhone(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePhone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !IsValidation(err) {
			t.Errorf("ValidatePhone(%q) error should be a ValidationError, got %T", tt.in, err)
		}
	}
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
		wantErr  bool
	}{
		{45.0, 45.0, "45.0,45.0", false},
		{41.311081, 69.240562, "41.311081,69.240562", false},
		{-90, 180, "-90.0,180.0", false},
		{91, 0, "", true},
		{-91, 0, "", true},
		{0, 181, "", true},
		{0, -181, "", true},
	}
	for _, tt := range tests {
		got, err := FormatLocation(tt.lat, tt.lon)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatLocation(%v, %v) error = %v, wantErr %v", tt.lat, tt.lon, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatLocation(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestParseLocationRoundTrip(t *testing.T) {
	s, err := FormatLocation(41.311081, 69.240562)
	if err != nil {
		t.Fatal(err)
	}
	lat, lon, err := ParseLocation(s)
	if err != nil {
		t.Fatal(err)
	}
	if lat != 41.311081 || lon != 69.240562 {
		t.Errorf("round trip = (%v, %v)", lat, lon)
	}

	for _, bad := range []string{"", "45.0", "abc,def", "91.0,0.0", "x"} {
		if _, _, err := ParseLocation(bad); err == nil {
			t.Errorf("ParseLocation(%q) should fail", bad)
		}
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data       string
		wantAction CallbackAction
		wantID     int64
		wantOK     bool
	}{
		{"confirm_order_42", ActionConfirmOrder, 42, true},
		{"cancel_order_7", ActionCancelOrder, 7, true},
		{"change_name_1", ActionChangeName, 1, true},
		{"change_phone_99", ActionChangePhone, 99, true},
		{"change_location_3", ActionChangeLocation, 3, true},
		{"confirm_order_abc", "", 0, false},
		{"confirm_order_", "", 0, false},
		{"confirm_order_0", "", 0, false},
		{"confirm_order_-5", "", 0, false},
		{"nonsense", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		action, id, ok := ParseCallback(tt.data)
		if ok != tt.wantOK || action != tt.wantAction || id != tt.wantID {
			t.Errorf("ParseCallback(%q) = (%v, %d, %v), want (%v, %d, %v)",
				tt.data, action, id, ok, tt.wantAction, tt.wantID, tt.wantOK)
		}
	}
}
