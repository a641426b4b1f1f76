package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
)

func TestParseItem(t *testing.T) {
	item, err := ParseItem("2010735548360036353:3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if item.MealID != snowflake.ID(2010735548360036353) || item.Count != 3 {
		t.Fatalf("unexpected item %+v", item)
	}
	if got := item.Encode(); got != "2010735548360036353:3" {
		t.Fatalf("encode round trip = %q", got)
	}
}

func TestParseItemRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"2010735548360036353",
		"abc:2",
		"2010735548360036353:0",
		"2010735548360036353:-1",
		"2010735548360036353:two",
	}
	for _, raw := range cases {
		if _, err := ParseItem(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
