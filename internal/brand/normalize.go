package brand

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// mathAlphabet maps the start of a Unicode mathematical alphanumeric block to
// its ASCII base. Spammers use these glyphs to spell brand names that survive
// naive keyword filters ("𝐀𝐦𝐚𝐳𝐨𝐧").
type mathAlphabet struct {
	start, end rune
	base       rune
}

var mathAlphabets = []mathAlphabet{
	{0x1D400, 0x1D419, 'A'}, // bold
	{0x1D41A, 0x1D433, 'a'},
	{0x1D434, 0x1D44D, 'A'}, // italic
	{0x1D44E, 0x1D467, 'a'},
	{0x1D468, 0x1D481, 'A'}, // bold italic
	{0x1D482, 0x1D49B, 'a'},
	{0x1D5A0, 0x1D5B9, 'A'}, // sans-serif
	{0x1D5BA, 0x1D5D3, 'a'},
	{0x1D5D4, 0x1D5ED, 'A'}, // sans-serif bold
	{0x1D5EE, 0x1D607, 'a'},
	{0x1D608, 0x1D621, 'A'}, // sans-serif italic
	{0x1D622, 0x1D63B, 'a'},
	{0x1D670, 0x1D689, 'A'}, // monospace
	{0x1D68A, 0x1D6A3, 'a'},
	{0x1D7CE, 0x1D7D7, '0'}, // bold digits
	{0x1D7E2, 0x1D7EB, '0'}, // sans-serif digits
	{0x1D7F6, 0x1D7FF, '0'}, // monospace digits
}

func foldMathRune(r rune) rune {
	for _, a := range mathAlphabets {
		if r >= a.start && r <= a.end {
			return a.base + (r - a.start)
		}
	}
	return r
}

var spoofTransformer = transform.Chain(
	norm.NFKD,
	width.Fold,
	runes.Remove(runes.In(unicode.Mn)),
)

// Normalize folds unicode-spoofed characters down to plain ASCII-ish text:
// mathematical alphabets, fullwidth forms and compatibility variants all
// collapse to their base letters. It also reports whether any folding
// happened, which is itself an impersonation signal.
func Normalize(s string) (string, bool) {
	mapped := strings.Map(foldMathRune, s)
	folded, _, err := transform.String(spoofTransformer, mapped)
	if err != nil {
		// Keep what we have; a failed fold only weakens matching.
		folded = mapped
	}
	return folded, folded != s
}
