// Package symbols finds cashtags ($ followed by letters) in post text.
package symbols

import (
	"regexp"
	"strings"

	"cashtag-trader/internal/types"
)

var cashtagRe = regexp.MustCompile(`\$([A-Za-z]+)`)

// Extract returns the unique uppercased cashtag symbols in text. A tag that runs
// straight into a digit, an underscore or a non-ASCII letter ($AB1, $AB_C, $abé)
// is not a symbol.
func Extract(text string) types.SymbolSet {
	out := types.SymbolSet{}
	if !strings.Contains(text, "$") {
		return out
	}

	for _, m := range cashtagRe.FindAllStringSubmatchIndex(text, -1) {
		end := m[1]
		if end < len(text) && isWordTail(text[end]) {
			continue
		}
		out[strings.ToUpper(text[m[2]:m[3]])] = struct{}{}
	}
	return out
}

func isWordTail(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || b >= 0x80
}

// Normalize uppercases and trims a broker-provided symbol for set membership.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
