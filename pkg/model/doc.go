// Package model defines the typed form model derived from prompt templates.
// Types live in internal/model and are re-exported here; the Builder turns a
// Template into a FormModel by scanning its placeholder tokens. Fields carry
// the formatted label (also the FormValues key), the raw label as Name and
// the verbatim hint text. Image attachment placeholders never become fields;
// FormModel.Attachments counts them so collectors know an upload is expected.
package model
