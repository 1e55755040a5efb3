// Package placeholder implements the template placeholder engine: scanning a
// prompt template for `{label}` and `{label|hint}` tokens, deriving the form
// fields those tokens describe, and substituting collected values back into
// the template text.
//
// Every function is a pure string transform. Malformed input (unmatched
// braces, empty tokens) never produces an error; it degrades to leaving text
// untouched. Unfilled placeholders stay literally in the substituted output.
//
// Tokens whose label is "attached image" or "attached_image" (any case) are
// classified as model.TokenKindImageAttachment. They never become fields and
// are never substituted; the image travels to the inference backend on its
// own.
package placeholder
