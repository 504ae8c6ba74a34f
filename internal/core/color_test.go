package core

import "testing"

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor("orange"); !ok || c != ColorOrange {
		t.Errorf("ParseColor(orange) = %v, %v", c, ok)
	}
	if _, ok := ParseColor("ultraviolet"); ok {
		t.Error("unknown color names should not parse")
	}
}
