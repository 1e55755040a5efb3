package model

import internalmodel "github.com/singampalli/ideaminds/internal/model"

// TokenKind re-exports the internal TokenKind enumeration.
type TokenKind = internalmodel.TokenKind

const (
	TokenKindText            = internalmodel.TokenKindText
	TokenKindImageAttachment = internalmodel.TokenKindImageAttachment
)

type Template = internalmodel.Template
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
type FormValues = internalmodel.FormValues

// DeriveOptions configures field derivation (labeler overrides).
type DeriveOptions = internalmodel.Options

// ErrInvalidTemplate is returned by Template.Validate.
var ErrInvalidTemplate = internalmodel.ErrInvalidTemplate
