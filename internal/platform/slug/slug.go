package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// letters that carry no combining mark and so survive decomposition
var foldLetters = strings.NewReplacer("đ", "d", "Đ", "d", "ø", "o", "Ø", "o", "ß", "ss", "æ", "ae", "Æ", "ae")

// Make turns a book title into a file-name safe slug, folding accents ("Nhà Giả Kim" -> "nha-gia-kim").
func Make(input string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), input)
	if err != nil {
		folded = input
	}
	s := strings.ToLower(strings.TrimSpace(foldLetters.Replace(folded)))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	return s
}
