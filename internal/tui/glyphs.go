package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render the Unicode affordances badly; ORGANIZER_TUI_GLYPHS=ascii swaps them out.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ORGANIZER_TUI_GLYPHS"))) {
	case "ascii":
		setGlyphs(glyphSetASCII)
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwistyCollapsed() string { return pick("▸", ">") }
func glyphTwistyExpanded() string  { return pick("▾", "v") }
func glyphLeaf() string            { return pick("·", "-") }
func glyphChecked() string         { return pick("☑", "[x]") }
func glyphUnchecked() string       { return pick("☐", "[ ]") }
func glyphHRule() string           { return pick("─", "-") }
