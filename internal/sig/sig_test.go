package sig

import (
	"errors"
	"strings"
	"testing"
)

func TestSignatureStripsAllWhitespace(t *testing.T) {
	got := Signature("sensitivity\t1.5   // mouse\r\n")
	want := "sensitivity1.5//mouse"
	if got != want {
		t.Fatalf("Signature mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestSignatureEmptyAndBlank(t *testing.T) {
	if got := Signature(""); got != "" {
		t.Fatalf("Signature(\"\") = %q, want empty", got)
	}
	if got := Signature(" \t\r\n\f\v"); got != "" {
		t.Fatalf("Signature(blank) = %q, want empty", got)
	}
}

func TestValidateAcceptsWhitespaceOnlyChanges(t *testing.T) {
	original := "bind \"w\" \"+forward\"\n"
	candidate := "bind  \"w\"   \"+forward\"\r\n"
	if err := Validate(original, candidate); err != nil {
		t.Fatalf("Validate rejected whitespace-only change: %v", err)
	}
}

func TestValidateRejectsContentChange(t *testing.T) {
	original := "bind \"w\" \"+forward\"\nsensitivity 1.5\n"
	candidate := "bind \"w\" \"+attack\"\nsensitivity 1.5\n"

	err := Validate(original, candidate)
	if err == nil {
		t.Fatal("Validate accepted a content change")
	}
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error is %T, want *MismatchError", err)
	}
	if len(mismatch.Lines) != 1 || mismatch.Lines[0] != 1 {
		t.Fatalf("mismatch lines = %v, want [1]", mismatch.Lines)
	}
}

func TestValidateRejectsDroppedLine(t *testing.T) {
	original := "alias a b\nalias c d\n"
	candidate := "alias a b\n"
	if err := Validate(original, candidate); err == nil {
		t.Fatal("Validate accepted a dropped line")
	}
}

func TestMismatchErrorCapsLineList(t *testing.T) {
	lines := make([]int, 12)
	for i := range lines {
		lines[i] = i + 1
	}
	msg := (&MismatchError{Lines: lines}).Error()
	if !strings.Contains(msg, "(+2)") {
		t.Fatalf("error message %q does not mark overflow", msg)
	}
	if strings.Contains(msg, "11") {
		t.Fatalf("error message %q lists more than 10 lines", msg)
	}
}
