package types

import "testing"

func TestDirectionReverse(t *testing.T) {
	tests := []struct {
		in, want Direction
	}{
		{Forward, Backward},
		{Backward, Forward},
		{Open, Open},
	}
	for _, tt := range tests {
		if got := tt.in.Reverse(); got != tt.want {
			t.Errorf("%s.Reverse() = %s, want %s", tt.in, got, tt.want)
		}
	}
	// 断开反转两次仍为断开
	if Open.Reverse().Reverse() != Open {
		t.Errorf("open should stay open")
	}
}

func TestParseDirection(t *testing.T) {
	for name, want := range map[string]Direction{
		"forward":  Forward,
		" Forward": Forward,
		"b":        Backward,
		"OPEN":     Open,
	} {
		got, err := ParseDirection(name)
		if err != nil {
			t.Fatalf("ParseDirection(%q) failed: %v", name, err)
		}
		if got != want {
			t.Errorf("ParseDirection(%q) = %s, want %s", name, got, want)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Errorf("ParseDirection should reject unknown names")
	}
}

func TestDirectionText(t *testing.T) {
	var d Direction
	if err := d.UnmarshalText([]byte("backward")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != "backward" {
		t.Errorf("MarshalText = %s, want backward", text)
	}
	if _, err := Direction(9).MarshalText(); err == nil {
		t.Errorf("MarshalText should reject unknown direction")
	}
}
