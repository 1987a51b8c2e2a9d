package sqlstore

import (
	"testing"
	"time"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		driver, in, want string
	}{
		{"mysql", "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"sqlite", "a = ?", "a = ?"},
		{"pgsql", "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"pgsql", "x IN (??) AND y = ?", "x IN (??) AND y = $1"},
		{"pgsql", "no placeholders", "no placeholders"},
	}
	for _, tt := range tests {
		t.Run(tt.driver+"/"+tt.in, func(t *testing.T) {
			d, err := lookupDialect(tt.driver)
			if err != nil {
				t.Fatal(err)
			}
			if got := d.rebind(tt.in); got != tt.want {
				t.Errorf("rebind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in   string
		want string // formatted in loc, "" for nil
	}{
		{"", ""},
		{"2025-07-04T10:00:00Z", "2025-07-04 12:00"},
		{"2025-07-04T10:00:00.000000Z", "2025-07-04 12:00"},
		{"2025-07-04 14:00:00", "2025-07-04 14:00"},
		{"2025-07-04T14:00:00", "2025-07-04 14:00"},
		{"2025-01-15 09:30", "2025-01-15 09:30"},
	}
	for _, tt := range tests {
		got, err := parseTime(tt.in, loc)
		if err != nil {
			t.Errorf("parseTime(%q): %v", tt.in, err)
			continue
		}
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("parseTime(%q) = %v, want nil", tt.in, got)
		case tt.want != "" && (got == nil || got.Format("2006-01-02 15:04") != tt.want):
			t.Errorf("parseTime(%q) = %v, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := parseTime("next tuesday", loc); err == nil {
		t.Error("expected error for free text")
	}
}

func TestTimeValueScan(t *testing.T) {
	v := timeValue{loc: time.UTC}
	if err := v.Scan(nil); err != nil || v.t != nil {
		t.Errorf("Scan(nil) = %v, %v", v.t, err)
	}
	now := time.Date(2025, 7, 4, 14, 0, 0, 0, time.UTC)
	if err := v.Scan(now); err != nil || !v.t.Equal(now) {
		t.Errorf("Scan(time) = %v, %v", v.t, err)
	}
	if err := v.Scan([]byte("2025-07-04 14:00:00")); err != nil || !v.t.Equal(now) {
		t.Errorf("Scan(bytes) = %v, %v", v.t, err)
	}
	if err := v.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
