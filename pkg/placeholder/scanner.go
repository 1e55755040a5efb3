package placeholder

import (
	"regexp"
	"strings"

	internalmodel "github.com/singampalli/ideaminds/internal/model"
)

// A token starts at the leftmost unconsumed '{' and ends at the first '}'
// after it. Bodies never span line terminators, matching how template authors
// write single-line placeholders.
var tokenPattern = regexp.MustCompile(`\{([^}\n\r\x{2028}\x{2029}]*)\}`)

// hintSeparator splits a token body into label and hint.
const hintSeparator = "|"

var imageAttachmentLabels = map[string]struct{}{
	"attached image": {},
	"attached_image": {},
}

// Token is a placeholder occurrence found in a template.
type Token struct {
	// Raw is the exact text between the braces.
	Raw string
	// Label is the text before the first '|'.
	Label string
	// Hint is everything after the first '|', verbatim. Empty when absent.
	Hint string
	// HasHint reports whether a '|' separator was present.
	HasHint bool
	// Kind classifies how the token is satisfied.
	Kind internalmodel.TokenKind
	// Start and End are byte offsets of the token (braces included).
	Start int
	End   int
}

// Literal returns the token text as it appears in the template.
func (t Token) Literal() string {
	return "{" + t.Raw + "}"
}

// Excluded reports whether the token is satisfied out-of-band and therefore
// contributes no form field.
func (t Token) Excluded() bool {
	return t.Kind == internalmodel.TokenKindImageAttachment
}

// Scan returns every placeholder token in content in order of appearance.
// Duplicates are preserved and unmatched braces are ignored.
func Scan(content string) []Token {
	if content == "" {
		return nil
	}
	matches := tokenPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		token := ParseToken(content[m[2]:m[3]])
		token.Start = m[0]
		token.End = m[1]
		tokens = append(tokens, token)
	}
	return tokens
}

// ScanRaw returns the raw token bodies found in content.
func ScanRaw(content string) []string {
	tokens := Scan(content)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = token.Raw
	}
	return out
}

// ParseToken splits a raw token body into label and hint and classifies it.
func ParseToken(raw string) Token {
	token := Token{Raw: raw, Label: raw}
	if label, hint, ok := strings.Cut(raw, hintSeparator); ok {
		token.Label = label
		token.Hint = hint
		token.HasHint = true
	}
	token.Kind = KindOf(token.Label)
	return token
}

// KindOf classifies a raw label.
func KindOf(label string) internalmodel.TokenKind {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if _, ok := imageAttachmentLabels[normalized]; ok {
		return internalmodel.TokenKindImageAttachment
	}
	return internalmodel.TokenKindText
}

// CountAttachments returns how many image placeholders content declares.
func CountAttachments(content string) int {
	count := 0
	for _, token := range Scan(content) {
		if token.Excluded() {
			count++
		}
	}
	return count
}
