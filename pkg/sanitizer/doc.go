// Package sanitizer normalizes guest, staff and room input before it is
// validated and stored.
//
// All functions are idempotent. Input that cannot be normalized is
// returned trimmed but otherwise unchanged, so the validator reports it
// instead of the sanitizer silently dropping it.
//
// Normalization includes:
//   - Phone numbers: E.164 (+[country][number]), national numbers are tried against DefaultRegions
//   - Names: collapse inner whitespace, trim
//   - Emails: trim, lowercase
//   - Document and room numbers: trim, uppercase, no inner spaces
package sanitizer
