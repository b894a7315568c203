package theme

import (
	"os"
	"strings"
)

// Glyphs shown in the interface. ApplySymbols swaps them between the Unicode
// and ASCII sets.
var (
	SymbolSuccess  string
	SymbolError    string
	SymbolArrowR   string
	SymbolBullet   string
	SymbolEllipsis string
	SymbolUser     string
	SymbolBot      string
)

type symbolSet struct {
	success, err, arrow, bullet, ellipsis string
}

var (
	unicodeSet = symbolSet{success: "✓", err: "✗", arrow: "→", bullet: "•", ellipsis: "…"}
	asciiSet   = symbolSet{success: "[OK]", err: "[ERR]", arrow: "->", bullet: "*", ellipsis: "..."}
)

// UnicodeTerminal guesses whether the terminal can draw Unicode glyphs.
// RESEARCH_ASCII_SYMBOLS=1 (or true) forces ASCII. Otherwise the first
// non-empty locale variable decides, and an unset locale is assumed to be
// UTF-8.
func UnicodeTerminal(getenv func(string) string) bool {
	if v := getenv("RESEARCH_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return false
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := strings.ToLower(getenv(key)); v != "" {
			return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
		}
	}
	return true
}

// ApplySymbols selects the glyph set.
func ApplySymbols(unicode bool) {
	set := asciiSet
	if unicode {
		set = unicodeSet
	}
	SymbolSuccess = set.success
	SymbolError = set.err
	SymbolArrowR = set.arrow
	SymbolBullet = set.bullet
	SymbolEllipsis = set.ellipsis
	SymbolUser = "You"
	SymbolBot = "Assistant"
}

// ForceASCII is used when ui.ascii is set in the config.
func ForceASCII() { ApplySymbols(false) }

func init() {
	ApplySymbols(UnicodeTerminal(os.Getenv))
}
