// Package textenc resolves text codecs by name and performs strict
// conversions between file bytes and UTF-8 strings. Strict means no
// guessing and no replacement characters: bytes the codec cannot
// represent fail the whole operation.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultName is the codec used when no encoding is configured.
const DefaultName = "utf-8"

// Codec decodes raw file bytes to UTF-8 text and encodes text back.
type Codec struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// Resolve looks up a codec by its IANA/WHATWG name ("utf-8", "gbk",
// "iso-8859-1", ...). An empty name resolves to UTF-8.
func Resolve(name string) (*Codec, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" || label == "utf-8" || label == "utf8" {
		return &Codec{name: DefaultName, utf8: true}, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = label
	}
	if canonical == "utf-8" {
		return &Codec{name: DefaultName, utf8: true}, nil
	}
	return &Codec{name: canonical, enc: enc}, nil
}

// Name returns the canonical codec name.
func (c *Codec) Name() string {
	return c.name
}

// Decode converts raw file bytes into a UTF-8 string. Invalid input for
// the codec is an error, never silently replaced.
func (c *Codec) Decode(raw []byte) (string, error) {
	if c.utf8 {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid utf-8 byte sequence")
		}
		return string(raw), nil
	}
	out, _, err := transform.Bytes(c.enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}
	// Legacy charmap decoders substitute U+FFFD for undefined bytes
	// instead of failing; no legacy codec can encode U+FFFD itself, so
	// its presence in the output proves undecodable input.
	if strings.ContainsRune(string(out), utf8.RuneError) {
		return "", fmt.Errorf("decode %s: input contains undecodable bytes", c.name)
	}
	return string(out), nil
}

// Encode converts UTF-8 text into the codec's byte representation. Runes
// the codec cannot express are an error.
func (c *Codec) Encode(text string) ([]byte, error) {
	if c.utf8 {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}
