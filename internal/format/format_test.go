package format

import (
	"slices"
	"testing"

	"cfgfmt/internal/sig"
)

func formatText(t *testing.T, raw string, opts Options) Result {
	t.Helper()
	res := Text(raw, opts)
	if !sig.Equal(raw, res.Text) {
		t.Fatalf("formatting broke the signature invariant:\nin  %q\nout %q", raw, res.Text)
	}
	return res
}

func TestTabExpansionAndCommentAlignment(t *testing.T) {
	res := formatText(t, "sensitivity\t1.5   // mouse", Options{})

	want := "sensitivity 1.5 // mouse"
	if res.Text != want {
		t.Fatalf("Text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
	if !res.Changed {
		t.Fatal("Changed = false for a line that needed work")
	}
	if got := sig.Signature(res.Text); got != "sensitivity1.5//mouse" {
		t.Fatalf("signature = %q", got)
	}
}

func TestValueColumnAlignment(t *testing.T) {
	res := formatText(t, "sensitivity 1.5\nvolume 0.2\n", Options{})

	want := "sensitivity 1.5\nvolume      0.2\n"
	if res.Text != want {
		t.Fatalf("Text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestKeyCapLimitsAlignment(t *testing.T) {
	res := formatText(t, "sensitivity 1.5\nvolume 0.2\n", Options{KeyCap: 8})

	// The long key exceeds the cap and gets a single separator space.
	want := "sensitivity 1.5\nvolume   0.2\n"
	if res.Text != want {
		t.Fatalf("Text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestTwoQuoteAlignment(t *testing.T) {
	res := formatText(t, "bind \"w\" \"+forward\"\nbind \"space\" \"+jump\"\n", Options{})

	want := "bind \"w\"     \"+forward\"\nbind \"space\" \"+jump\"\n"
	if res.Text != want {
		t.Fatalf("Text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestEchoTableAlignment(t *testing.T) {
	res := formatText(t, "echo one | two\necho three | four\n", Options{})

	want := "echo one   | two\necho three | four\n"
	if res.Text != want {
		t.Fatalf("Text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestEchoTableAlignmentDisabled(t *testing.T) {
	raw := "echo one | two\necho three | four\n"
	res := formatText(t, raw, Options{NoEchoTables: true})
	if res.Changed {
		t.Fatalf("echo lines were touched with tables disabled:\n%q", res.Text)
	}
}

func TestEchoPreservesAsciiArtSpacing(t *testing.T) {
	raw := "echo      ____\necho     /    \\\n"
	res := formatText(t, raw, Options{})
	if res.Changed {
		t.Fatalf("ASCII art echo lines were reflowed:\n%q", res.Text)
	}
}

func TestCommentInsideQuotesIsNotAComment(t *testing.T) {
	raw := "say \"hello // world\"\n"
	res := formatText(t, raw, Options{})
	if res.Changed {
		t.Fatalf("quoted // was treated as a comment:\n%q", res.Text)
	}
}

func TestBlockModeAlignsPerBlock(t *testing.T) {
	raw := "sensitivity 1.5\nvolume 0.2\n\nr_fullscreen 1\n"

	blockRes := formatText(t, raw, Options{AlignMode: AlignBlock})
	wantBlock := "sensitivity 1.5\nvolume      0.2\n\nr_fullscreen 1\n"
	if blockRes.Text != wantBlock {
		t.Fatalf("block mode mismatch:\nwant %q\ngot  %q", wantBlock, blockRes.Text)
	}

	globalRes := formatText(t, raw, Options{AlignMode: AlignGlobal})
	wantGlobal := "sensitivity  1.5\nvolume       0.2\n\nr_fullscreen 1\n"
	if globalRes.Text != wantGlobal {
		t.Fatalf("global mode mismatch:\nwant %q\ngot  %q", wantGlobal, globalRes.Text)
	}
}

func TestBlockBoundaries(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"echo;", true},
		{"ECHO;", true},
		{"// +------------------+", true},
		{"// +*+", true},
		{"// plain comment", false},
		{"bind \"w\" \"+forward\"", false},
	}
	for _, tc := range cases {
		if got := isBlockBoundary(tc.line); got != tc.want {
			t.Errorf("isBlockBoundary(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestCommentOnlyLinesAreTrimmedNotAligned(t *testing.T) {
	res := formatText(t, "// hello   \n\t// world\n", Options{})

	want := "// hello\n    // world\n"
	if res.Text != want {
		t.Fatalf("Text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestNewlinePreservation(t *testing.T) {
	res := formatText(t, "volume\t0.2\r\nsensitivity 1.5", Options{})

	want := "volume      0.2\r\nsensitivity 1.5"
	if res.Text != want {
		t.Fatalf("Text mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestMixedNewlinesFollowFirstStyle(t *testing.T) {
	// The first line ending observed decides the style for the whole
	// document, whichever ending later lines used.
	res := formatText(t, "volume 0.2\nsensitivity 1.5\r\n", Options{})
	want := "volume      0.2\nsensitivity 1.5\n"
	if res.Text != want {
		t.Fatalf("LF-first mismatch:\nwant %q\ngot  %q", want, res.Text)
	}

	res = formatText(t, "volume 0.2\r\nsensitivity 1.5\n", Options{})
	want = "volume      0.2\r\nsensitivity 1.5\r\n"
	if res.Text != want {
		t.Fatalf("CRLF-first mismatch:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestEmptyDocument(t *testing.T) {
	res := Text("", Options{})
	if res.Text != "" || res.Changed {
		t.Fatalf("empty input produced %q (changed=%v)", res.Text, res.Changed)
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"sensitivity\t1.5   // mouse\n",
		"bind \"w\" \"+forward\"\nbind \"space\" \"+jump\"\n",
		"echo one | two\necho three | four\n",
		"sensitivity 1.5\nvolume 0.2\n\nr_fullscreen 1\n",
		"// header\n\nvolume 0.2\r\n",
	}
	for _, mode := range []AlignMode{AlignGlobal, AlignBlock} {
		for _, raw := range inputs {
			first := formatText(t, raw, Options{AlignMode: mode})
			second := formatText(t, first.Text, Options{AlignMode: mode})
			if second.Changed {
				t.Errorf("mode %s: second pass changed output again:\nfirst  %q\nsecond %q", mode, first.Text, second.Text)
			}
		}
	}
}

func TestLineOrderNeverChanges(t *testing.T) {
	raw := "b 2\na 1\nc 3\n"
	res := formatText(t, raw, Options{})
	want := "b 2\na 1\nc 3\n"
	if res.Text != want {
		t.Fatalf("line order or content changed:\nwant %q\ngot  %q", want, res.Text)
	}
}

func TestSignatureFallbackRevertsLine(t *testing.T) {
	var fallback []int
	r := &record{kind: kindPass, orig: "alias a b", line: "alias a b", lineno: 7}
	got := checkLine(r, "alias a c", Options{TabWidth: 4}, &fallback)
	if got != "alias a b" {
		t.Fatalf("checkLine returned %q, want original form", got)
	}
	if !slices.Equal(fallback, []int{7}) {
		t.Fatalf("fallback lines = %v, want [7]", fallback)
	}
}
