package placeholder

import (
	"strings"
	"unicode"

	internalmodel "github.com/singampalli/ideaminds/internal/model"
)

// SubstitutionKey normalises a field label into the key compared against
// token match keys: lower-cased, with every whitespace run replaced by a
// single underscore ("User Name" becomes "user_name").
func SubstitutionKey(label string) string {
	lowered := strings.ToLower(label)

	var out strings.Builder
	out.Grow(len(lowered))
	inSpace := false
	for _, r := range lowered {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			if !inSpace {
				out.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		out.WriteRune(r)
	}
	return out.String()
}

// MatchKey returns the lookup key for a raw token body: the lower-cased text
// before the first '|'. The label is not trimmed, so "{ name }" only matches
// a value keyed " name ".
func MatchKey(raw string) string {
	lowered := strings.ToLower(raw)
	label, _, _ := strings.Cut(lowered, hintSeparator)
	return label
}

// Substitute replaces placeholder tokens in content with the supplied values.
// values is keyed by field label as produced by Derive. For each distinct raw
// token, only the first occurrence of its literal text is replaced; later
// verbatim repeats stay in place, so "{a}-{a}" with A=x yields "x-{a}".
// Tokens without a non-empty value are left unchanged, and image placeholders
// are never touched.
func Substitute(content string, values internalmodel.FormValues) string {
	return substitute(content, values, false)
}

// SubstituteAll behaves like Substitute but replaces every occurrence of each
// token, so "{a}-{a}" with A=x yields "x-x".
func SubstituteAll(content string, values internalmodel.FormValues) string {
	return substitute(content, values, true)
}

func substitute(content string, values internalmodel.FormValues, all bool) string {
	if content == "" || len(values) == 0 {
		return content
	}

	data := promptData(values)
	text := content
	seen := make(map[string]struct{})

	for _, token := range Scan(content) {
		if token.Excluded() {
			continue
		}
		if _, done := seen[token.Raw]; done {
			continue
		}
		seen[token.Raw] = struct{}{}

		value := data[MatchKey(token.Raw)]
		if value == "" {
			continue
		}

		if all {
			text = strings.ReplaceAll(text, token.Literal(), value)
		} else {
			text = strings.Replace(text, token.Literal(), value, 1)
		}
	}
	return text
}

func promptData(values internalmodel.FormValues) map[string]string {
	data := make(map[string]string, len(values))
	for label, value := range values {
		data[SubstitutionKey(label)] = value
	}
	return data
}
