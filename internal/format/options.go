package format

// AlignMode selects how alignment widths are computed.
type AlignMode string

const (
	// AlignGlobal computes one alignment width across the whole file.
	AlignGlobal AlignMode = "global"
	// AlignBlock recomputes alignment per run of consecutive command lines.
	AlignBlock AlignMode = "block"
)

// Valid reports whether m is a recognized alignment mode.
func (m AlignMode) Valid() bool {
	return m == AlignGlobal || m == AlignBlock
}

// Default formatting parameters.
const (
	DefaultTabWidth   = 4
	DefaultKeyCap     = 40
	DefaultCommentCap = 90
)

// DefaultSpecialAlignKeys lists commands whose first two quoted arguments
// are aligned as columns (key "..." "...").
var DefaultSpecialAlignKeys = []string{"alias", "bind"}

// Options configures the whitespace/alignment transform. The zero value is
// not usable directly; withDefaults fills unset fields.
type Options struct {
	AlignMode        AlignMode
	TabWidth         int
	KeyCap           int
	CommentCap       int
	SpecialAlignKeys []string
	// NoEchoTables disables column alignment of echo table rows; the zero
	// value keeps table alignment on, matching the tool defaults.
	NoEchoTables bool
}

func (o Options) withDefaults() Options {
	if !o.AlignMode.Valid() {
		o.AlignMode = AlignGlobal
	}
	if o.TabWidth <= 0 {
		o.TabWidth = DefaultTabWidth
	}
	if o.KeyCap <= 0 {
		o.KeyCap = DefaultKeyCap
	}
	if o.CommentCap <= 0 {
		o.CommentCap = DefaultCommentCap
	}
	if o.SpecialAlignKeys == nil {
		o.SpecialAlignKeys = DefaultSpecialAlignKeys
	}
	return o
}

func (o Options) specialKeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.SpecialAlignKeys))
	for _, k := range o.SpecialAlignKeys {
		set[k] = struct{}{}
	}
	return set
}
