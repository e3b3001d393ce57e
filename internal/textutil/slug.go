package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugRunes = 80

func isTashkeel(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670 || r == 0x0640
}

var stripTashkeel = transform.Chain(norm.NFC, runes.Remove(runes.Predicate(isTashkeel)), norm.NFC)

// Slugify keeps Arabic and Latin letters and digits and joins words with '-'.
// Diacritics and tatweel are dropped.
func Slugify(s string) string {
	clean, _, err := transform.String(stripTashkeel, s)
	if err != nil {
		clean = s
	}

	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(clean) {
		if n >= maxSlugRunes {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
			n++
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
			n++
		}
	}
	return strings.Trim(b.String(), "-")
}

var arabicFold = strings.NewReplacer(
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
	"ٱ", "ا",
	"ى", "ي",
	"ة", "ه",
	"ؤ", "و",
	"ئ", "ي",
)

// NormalizeArabic folds letter variants so that search matches regardless of
// hamza placement, ta marbuta or diacritics.
func NormalizeArabic(s string) string {
	clean, _, err := transform.String(stripTashkeel, s)
	if err != nil {
		clean = s
	}
	clean = arabicFold.Replace(strings.ToLower(clean))
	return strings.Join(strings.Fields(clean), " ")
}
