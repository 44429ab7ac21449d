package translate

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunkLinesRoundTrip(t *testing.T) {
	lines := []string{"", "short", strings.Repeat("a", 30), "", "mid line", strings.Repeat("ü", 12), "end"}
	for _, max := range []int{1, 5, 20, 40, 1000} {
		chunks := ChunkLines(lines, max)
		var flat []string
		for _, c := range chunks {
			if len(c) == 0 {
				t.Errorf("max %d: empty chunk", max)
			}
			flat = append(flat, c...)
		}
		if !reflect.DeepEqual(flat, lines) {
			t.Errorf("max %d: chunks %q do not reproduce the input", max, chunks)
		}
	}
}

func TestChunkLinesRespectsCeiling(t *testing.T) {
	lines := []string{"aaaa", "bbbb", "cccc", "dddd", "ee"}
	chunks := ChunkLines(lines, 9)
	want := [][]string{{"aaaa", "bbbb"}, {"cccc", "dddd"}, {"ee"}}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("ChunkLines() = %q, want %q", chunks, want)
	}
	for _, c := range chunks {
		if n := len([]rune(strings.Join(c, "\n"))); n > 9 {
			t.Errorf("chunk %q has %d chars", c, n)
		}
	}
}

func TestChunkLinesOversizedLine(t *testing.T) {
	long := strings.Repeat("x", 50)
	chunks := ChunkLines([]string{"a", long, "b"}, 10)
	want := [][]string{{"a"}, {long}, {"b"}}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("ChunkLines() = %q, want the long line alone", chunks)
	}
}

func TestChunkLinesCountsCharacters(t *testing.T) {
	// 3 runes each, 9 bytes each
	chunks := ChunkLines([]string{"あいう", "えおか"}, 7)
	if len(chunks) != 1 {
		t.Errorf("ChunkLines() = %q, want a single chunk", chunks)
	}
}

func TestChunkLinesCountsOnlyJoiningNewlines(t *testing.T) {
	// 4 + 1 + 5 fills the ceiling exactly
	if chunks := ChunkLines([]string{"aaaa", "bbbbb"}, 10); len(chunks) != 1 {
		t.Errorf("ChunkLines() = %q, want a single chunk", chunks)
	}
	if chunks := ChunkLines([]string{"aaaa", "bbbbbb"}, 10); len(chunks) != 2 {
		t.Errorf("ChunkLines() = %q, want two chunks", chunks)
	}
}

func TestChunkLinesEmpty(t *testing.T) {
	if got := ChunkLines(nil, 10); len(got) != 0 {
		t.Errorf("ChunkLines(nil) = %q", got)
	}
}

func TestFitLines(t *testing.T) {
	tests := []struct {
		expected int
		got      []string
		want     []string
	}{
		{3, []string{"a"}, []string{"a", "", ""}},
		{2, []string{"a", "b", "c"}, []string{"a", "b"}},
		{2, []string{"a", "b"}, []string{"a", "b"}},
		{2, nil, []string{"", ""}},
		{0, []string{"a"}, []string{}},
	}
	for _, tt := range tests {
		if got := FitLines(tt.expected, tt.got); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FitLines(%d, %q) = %q, want %q", tt.expected, tt.got, got, tt.want)
		}
	}
}

func TestFitLinesDoesNotModifyInput(t *testing.T) {
	in := []string{"a", "b", "c"}
	out := FitLines(2, in)
	out[0] = "changed"
	if in[0] != "a" {
		t.Error("FitLines shares storage with its input")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb", []string{"a", "b"}},
		{"\na\n\nb\n\n", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasTimeTag(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"[00:01.23]Hello", true},
		{"[1:02]x", true},
		{"[01:02.123]x", true},
		{"[00:01.00][00:30.00]chorus", true},
		{"[01:02.1234]x", false},
		{"[ar:Artist]", false},
		{"Hello [00:01.00]", false},
		{" [00:01.00]x", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasTimeTag(tt.line); got != tt.want {
			t.Errorf("HasTimeTag(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsSyncedChecksFirstTenLines(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "plain"
	}
	lines[11] = "[00:10.00]late"
	if IsSynced(lines) {
		t.Error("IsSynced() = true for a tag on line 12")
	}
	lines[9] = "[00:09.00]in time"
	if !IsSynced(lines) {
		t.Error("IsSynced() = false for a tag on line 10")
	}
}

func TestSplitTimeTags(t *testing.T) {
	tags, text := SplitTimeTags("[00:01.00][00:30.00]chorus")
	if tags != "[00:01.00][00:30.00]" || text != "chorus" {
		t.Errorf("SplitTimeTags() = %q, %q", tags, text)
	}
	tags, text = SplitTimeTags("no tags")
	if tags != "" || text != "no tags" {
		t.Errorf("SplitTimeTags() = %q, %q", tags, text)
	}
}

func TestAlignTimeTags(t *testing.T) {
	src := []string{"[00:01.00]one", "[00:02.00]two", "", "[00:03.00]three"}
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{
			name: "matching",
			got:  []string{"[00:01.00]uno", "[00:02.00]dos", "", "[00:03.00]tres"},
			want: []string{"[00:01.00]uno", "[00:02.00]dos", "", "[00:03.00]tres"},
		},
		{
			name: "dropped tags",
			got:  []string{"uno", "dos", "", "[00:03.00]tres"},
			want: []string{"[00:01.00]uno", "[00:02.00]dos", "", "[00:03.00]tres"},
		},
		{
			name: "altered tag",
			got:  []string{"[00:01.00]uno", "[00:09.99] dos", "", "[00:03.00]tres"},
			want: []string{"[00:01.00]uno", "[00:02.00]dos", "", "[00:03.00]tres"},
		},
		{
			name: "dropped middle line",
			got:  []string{"[00:01.00]uno", "[00:03.00]tres"},
			want: []string{"[00:01.00]uno", "[00:02.00]", "", "[00:03.00]tres"},
		},
		{
			name: "surplus lines",
			got:  []string{"[00:01.00]uno", "[00:02.00]dos", "", "[00:03.00]tres", "extra", "[00:04.00]more"},
			want: []string{"[00:01.00]uno", "[00:02.00]dos", "", "[00:03.00]tres"},
		},
		{
			name: "empty reply",
			got:  nil,
			want: []string{"[00:01.00]", "[00:02.00]", "", "[00:03.00]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlignTimeTags(src, tt.got); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AlignTimeTags() = %q, want %q", got, tt.want)
			}
		})
	}
}
