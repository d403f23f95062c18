package clip

import (
	"testing"
	"time"
)

func TestIdentity_KnownDigests(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"hello", "5d41402abc4b2a76b9719d911017c592"},
		{"Hello World", "b10a8db164e0754105b7a99be72e3fe5"},
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
	}
	for _, tt := range tests {
		if got := Identity(tt.value); got != tt.want {
			t.Errorf("Identity(%q) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestIdentity_Deterministic(t *testing.T) {
	v := "ünïcödé \t text\r\n"
	first := Identity(v)
	for i := 0; i < 10; i++ {
		if got := Identity(v); got != first {
			t.Fatalf("Identity changed between calls: %s vs %s", got, first)
		}
	}
	if len(first) != 32 {
		t.Errorf("identity length = %d, want 32 hex chars", len(first))
	}
}

func TestIdentity_NoNormalization(t *testing.T) {
	if Identity("abc") == Identity("ABC") {
		t.Error("case variants must not share an identity")
	}
	if Identity("abc") == Identity("abc ") {
		t.Error("trailing whitespace must change the identity")
	}
}

func TestBuildAt(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)
	r := BuildAt("copy me", "Terminal", at)

	if r.Value != "copy me" {
		t.Errorf("Value = %q", r.Value)
	}
	if r.Identity != Identity("copy me") {
		t.Errorf("Identity = %s, want %s", r.Identity, Identity("copy me"))
	}
	if r.CapturedAt != 1_700_000_000_123 {
		t.Errorf("CapturedAt = %d, want 1700000000123", r.CapturedAt)
	}
	if r.Source != "Terminal" {
		t.Errorf("Source = %q", r.Source)
	}
	if !r.Time().Equal(at) {
		t.Errorf("Time() = %v, want %v", r.Time(), at)
	}
}

func TestBuild_UsesWallClock(t *testing.T) {
	before := time.Now().UnixMilli()
	r := Build("x", "")
	after := time.Now().UnixMilli()

	if r.CapturedAt < before || r.CapturedAt > after {
		t.Errorf("CapturedAt = %d, want within [%d, %d]", r.CapturedAt, before, after)
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\n\t \r", true},
		{"a", false},
		{"  a  ", false},
	}
	for _, tt := range tests {
		if got := IsBlank(tt.in); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"collapses whitespace", "a\n\tb   c", 10, "a b c"},
		{"truncates runes", "héllo wörld", 5, "héllo..."},
		{"zero keeps all", "abc def", 0, "abc def"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.in, tt.n); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
