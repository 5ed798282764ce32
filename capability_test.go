package artdeco

import "testing"

func TestIsValidHashAlgo(t *testing.T) {
	tests := []struct {
		algo HashAlgo
		want bool
	}{
		{HashArgon2, true},
		{HashBcrypt, true},
		{HashSHA256, true},
		{HashSHA512, true},
		{"md5", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidHashAlgo(tt.algo); got != tt.want {
			t.Errorf("IsValidHashAlgo(%q) = %v, want %v", tt.algo, got, tt.want)
		}
	}
}

func TestIsValidMaskType(t *testing.T) {
	valid := []MaskType{MaskSSN, MaskEmail, MaskPhone, MaskCard, MaskIP, MaskUUID, MaskIBAN, MaskName}
	for _, mt := range valid {
		if !IsValidMaskType(mt) {
			t.Errorf("IsValidMaskType(%q) = false, want true", mt)
		}
	}
	if IsValidMaskType("passport") {
		t.Error("IsValidMaskType(passport) = true, want false")
	}
}
