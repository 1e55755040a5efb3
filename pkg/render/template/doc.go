// Package template defines the template rendering seam used by the HTML form
// renderer. The gotemplate subpackage provides the pongo2-backed engine.
package template
