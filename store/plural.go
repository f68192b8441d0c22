package store

import "strings"

// pluralRule maps a count to a CLDR plural category for one language
// family.
type pluralRule func(n int) string

// pluralRules covers the languages whose CLDR cardinal rules differ from
// the plain one/other default. Keys are base language codes.
var pluralRules = map[string]pluralRule{
	// 0 and 1 are singular
	"fr": pluralZeroOne,
	"pt": pluralZeroOne,

	// no singular/plural distinction
	"ja": pluralOther,
	"zh": pluralOther,
	"ko": pluralOther,
	"th": pluralOther,
	"vi": pluralOther,
	"id": pluralOther,
	"ms": pluralOther,

	// one/few/many
	"ru": pluralEastSlavic,
	"uk": pluralEastSlavic,
	"be": pluralEastSlavic,
	"pl": pluralPolish,

	// one/few/other
	"sr": pluralSouthSlavic,
	"hr": pluralSouthSlavic,
	"bs": pluralSouthSlavic,
	"cs": pluralCzechSlovak,
	"sk": pluralCzechSlovak,

	// six forms
	"ar": pluralArabic,
}

// PluralCategory returns the CLDR cardinal category ("zero", "one", "two",
// "few", "many" or "other") used as the plural key suffix for a count in
// the given locale.
func PluralCategory(locale string, count int) string {
	if count < 0 {
		count = -count
	}
	base := strings.ToLower(strings.SplitN(canonicalLocale(locale), "-", 2)[0])
	if rule, ok := pluralRules[base]; ok {
		return rule(count)
	}
	return pluralOneOther(count)
}

func pluralOneOther(n int) string {
	if n == 1 {
		return "one"
	}
	return "other"
}

func pluralZeroOne(n int) string {
	if n == 0 || n == 1 {
		return "one"
	}
	return "other"
}

func pluralOther(int) string {
	return "other"
}

func pluralEastSlavic(n int) string {
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return "one"
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return "few"
	default:
		return "many"
	}
}

func pluralPolish(n int) string {
	if n == 1 {
		return "one"
	}
	mod10, mod100 := n%10, n%100
	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		return "few"
	}
	return "many"
}

func pluralSouthSlavic(n int) string {
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return "one"
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return "few"
	default:
		return "other"
	}
}

func pluralCzechSlovak(n int) string {
	switch {
	case n == 1:
		return "one"
	case n >= 2 && n <= 4:
		return "few"
	default:
		return "other"
	}
}

func pluralArabic(n int) string {
	switch {
	case n == 0:
		return "zero"
	case n == 1:
		return "one"
	case n == 2:
		return "two"
	case n%100 >= 3 && n%100 <= 10:
		return "few"
	case n%100 >= 11 && n%100 <= 99:
		return "many"
	default:
		return "other"
	}
}
