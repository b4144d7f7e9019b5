package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2026-03-14", Date{2026, time.March, 14}, false},
		{" 2026-03-14 ", Date{2026, time.March, 14}, false},
		{"2026-03-14T23:10:00Z", Date{2026, time.March, 14}, false},
		{"", Date{}, false},
		{"14/03/2026", Date{}, true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDateAddDaysCrossesMonths(t *testing.T) {
	d := Date{2026, time.February, 27}
	if got := d.AddDays(2).String(); got != "2026-03-01" {
		t.Errorf("AddDays(2) = %s", got)
	}
	if got := d.AddDays(-27).String(); got != "2026-01-31" {
		t.Errorf("AddDays(-27) = %s", got)
	}
}

func TestDateJSON(t *testing.T) {
	type doc struct {
		Due Date `json:"due"`
	}
	b, err := json.Marshal(doc{})
	if err != nil || string(b) != `{"due":""}` {
		t.Fatalf("zero date = %s, %v", b, err)
	}

	var d doc
	if err := json.Unmarshal([]byte(`{"due":"2026-03-14"}`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Due != (Date{2026, time.March, 14}) {
		t.Errorf("due = %v", d.Due)
	}
	if err := json.Unmarshal([]byte(`{"due":null}`), &d); err != nil || !d.Due.IsZero() {
		t.Errorf("null due = %v, %v", d.Due, err)
	}
}

func TestIDSourceStrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1_000)
	ids := NewIDSource(func() time.Time { return fixed })

	want := []string{"goal-1000", "task-1001", "goal-1002"}
	for i, entity := range []string{"goal", "task", "goal"} {
		if got := ids.Next(entity); got != want[i] {
			t.Errorf("Next(%q) = %q, want %q", entity, got, want[i])
		}
	}
}

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority(""); err != nil || p != PriorityMedium {
		t.Errorf("empty = %q, %v", p, err)
	}
	if p, err := ParsePriority("high"); err != nil || p != PriorityHigh {
		t.Errorf("high = %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("urgent accepted")
	}
}
