// Package classify decides whether a performance is Open Captioned or
// subtitled. Each chain codes this differently: AMC attaches machine codes
// like OPENCAPTION or SPANISHENGLISHSUBTITLE, Regal's API uses the bare
// code OC, and rendered pages only carry free-text labels. All of that
// vocabulary is absorbed here so the source adapters stay declarative.
package classify

import "strings"

// Attribute is one chain-native tag attached to a performance. Either
// field may be empty.
type Attribute struct {
	Code string
	Name string
}

var eligibleCodes = map[string]struct{}{
	"OPENCAPTION":               {},
	"NORWEGIANENGLISHSUBTITLE":  {},
	"PORTUGUESEENGLISHSUBTITLE": {},
	"SPANISHENGLISHSUBTITLE":    {},
	"FRENCHENGLISHSUBTITLE":     {},
	"GERMANENGLISHSUBTITLE":     {},
	"ITALIANENGLISHSUBTITLE":    {},
	"JAPANESEENGLISHSUBTITLE":   {},
	"KOREANENGLISHSUBTITLE":     {},
	"CHINESEENGLISHSUBTITLE":    {},
	"HINDISUBTITLE":             {},
	"ENGLISHSUBTITLE":           {},
	"SUBTITLED":                 {},
	"OC":                        {},
}

var eligibleKeywords = []string{
	"open caption",
	"subtitle",
	"english sub",
}

// IsOCEligible reports whether any attribute marks the performance as Open
// Caption or subtitled. Codes match against the allow-list after
// normalization, names match on keyword substrings. Unknown or malformed
// entries are simply non-matching.
func IsOCEligible(attrs []Attribute) bool {
	for _, attr := range attrs {
		if _, ok := eligibleCodes[normalizeCode(attr.Code)]; ok {
			return true
		}
		name := strings.ToLower(attr.Name)
		for _, kw := range eligibleKeywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

// normalizeCode uppercases and strips separators so OPEN-CAPTION,
// open_caption and OpenCaption all hit the same allow-list entry.
func normalizeCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if r == '-' || r == '_' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
