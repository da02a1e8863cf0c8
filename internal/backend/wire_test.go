package backend

import (
	"encoding/json"
	"testing"

	"github.com/liftlio/advocate/internal/model"
)

// ============================================================
// Mixed-type identifiers
// ============================================================

func TestFlexIDAcceptsNumberStringAndNull(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want FlexID
	}{
		{"integer", `7`, "7"},
		{"large integer keeps digits", `58417517989`, "58417517989"},
		{"string", `"7"`, "7"},
		{"uuid string", `"a1b2c3"`, "a1b2c3"},
		{"null", `null`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got FlexID
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFlexIDRejectsMalformedInput(t *testing.T) {
	var got FlexID
	if err := json.Unmarshal([]byte(`{`), &got); err == nil {
		t.Fatal("expected an error")
	}
}

// ============================================================
// Project reference matching
// ============================================================

func TestProjectIDMatches(t *testing.T) {
	cases := []struct {
		name   string
		row    string
		target string
		want   bool
	}{
		{"equal strings", "7", "7", true},
		{"whitespace tolerated", " 7 ", "7", true},
		{"numeric forms equal", "07", "7", true},
		{"different numbers", "7", "8", false},
		{"text id equal", "abc", "abc", true},
		{"text id different", "abc", "abd", false},
		{"empty row never matches", "", "", false},
		{"empty target never matches", "7", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProjectIDMatches(tc.row, tc.target); got != tc.want {
				t.Fatalf("ProjectIDMatches(%q, %q) = %v, want %v", tc.row, tc.target, got, tc.want)
			}
		})
	}
}

func TestFilterByProject(t *testing.T) {
	rows := []model.Notification{
		{ID: "1", ProjectID: "7"},
		{ID: "2", ProjectID: "07"},
		{ID: "3", ProjectID: "8"},
		{ID: "4", ProjectID: ""},
	}

	got := FilterByProject(rows, "7")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("got %+v", got)
	}
}
