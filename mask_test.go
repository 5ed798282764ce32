package artdeco

import "testing"

func TestMaskers(t *testing.T) {
	tests := []struct {
		mt    MaskType
		input string
		want  string
	}{
		{MaskSSN, "123-45-6789", "***-**-6789"},
		{MaskSSN, "12", "**"},
		{MaskEmail, "alice@example.com", "a***@example.com"},
		{MaskEmail, "@example.com", "************"},
		{MaskPhone, "(555) 123-4567", "(***) ***-4567"},
		{MaskPhone, "555-123-4567", "***-***-4567"},
		{MaskPhone, "123-4567", "***-4567"},
		{MaskCard, "4111111111111111", "************1111"},
		{MaskCard, "4111 1111 1111 1111", "**** **** **** 1111"},
		{MaskCard, "4111-1111-1111-1111", "****-****-****-1111"},
		{MaskIP, "192.168.1.100", "192.168.xxx.xxx"},
		{MaskIP, "2001:db8::1", "2001:0db8:0000:0000:xxxx:xxxx:xxxx:xxxx"},
		{MaskIP, "not-an-ip", "*********"},
		{MaskUUID, "550e8400-e29b-41d4-a716-446655440000", "550e8400-****-****-****-************"},
		{MaskIBAN, "GB82WEST12345698765432", "GB82**************5432"},
		{MaskName, "John Smith", "J*** S****"},
		{MaskName, "Zoë", "Z**"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mt)+"/"+tt.input, func(t *testing.T) {
			if got := maskers[tt.mt](tt.input); got != tt.want {
				t.Errorf("mask %s(%q) = %q, want %q", tt.mt, tt.input, got, tt.want)
			}
		})
	}
}
