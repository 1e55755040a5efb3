// Package openapi describes derived forms as OpenAPI 3 documents using
// kin-openapi. Export publishes a form as a generate operation, Import reads
// one back, and ValidateValues checks submitted values against the exported
// request schema.
package openapi
