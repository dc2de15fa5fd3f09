package engine

import "testing"

func TestPrefixRange(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		wantEnd   BoundKind
		wantUpper string
	}{
		{"simple", "ab", Excluded, "ac"},
		{"trailing 0xff stripped", "a\xff", Excluded, "b"},
		{"all 0xff unbounded", "\xff\xff", Unbounded, ""},
		{"empty unbounded", "", Unbounded, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PrefixRange([]byte(tt.prefix))

			if r.Start.Kind != Included || string(r.Start.Key) != tt.prefix {
				t.Fatalf("start bound = %+v, want Included(%q)", r.Start, tt.prefix)
			}
			if r.End.Kind != tt.wantEnd {
				t.Fatalf("end kind = %v, want %v", r.End.Kind, tt.wantEnd)
			}
			if tt.wantEnd == Excluded && string(r.End.Key) != tt.wantUpper {
				t.Fatalf("end key = %q, want %q", r.End.Key, tt.wantUpper)
			}
		})
	}
}
