// Package io reads and writes unified layered documents as JSON or YAML.
//
// Documents on disk are decoded into raw JSON rather than a typed
// [document.Document]: the validator needs the untyped form to report schema
// errors, so reading never rejects a structurally invalid document. YAML input
// is converted to JSON on the way in:
//
//	raw, err := io.ReadDocument("logo.yaml")
//	res := validate.New(validate.DefaultOptions()).ValidateDocument(raw)
//
// The path "-" reads from standard input; the format is then guessed from the
// first non-space byte.
package io
