package model

import (
	"strings"
	"unicode/utf8"
)

// DefaultLabeler converts a raw placeholder label into the label shown to
// users. It splits on underscores and upper-cases the first character of each
// segment, leaving the rest untouched: "user_name" becomes "User Name" and
// "eMail" becomes "EMail". Empty segments are kept, so "a__b" yields "A  B".
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	segments := strings.Split(name, "_")
	for i, segment := range segments {
		segments[i] = upperFirst(segment)
	}
	return strings.Join(segments, " ")
}

func upperFirst(word string) string {
	if word == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return strings.ToUpper(string(r)) + word[size:]
}
