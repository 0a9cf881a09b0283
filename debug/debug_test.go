package debug

import "testing"

func TestBoolEnv(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{"false", false},
		{"junk", false},
	}
	for _, tt := range tests {
		t.Setenv("XMERGE_TEST_FLAG", tt.val)
		if got := boolEnv("XMERGE_TEST_FLAG"); got != tt.want {
			t.Errorf("boolEnv(%q) = %v, want %v", tt.val, got, tt.want)
		}
	}
}
