// Package util provides common utility functions used across the linkedin-oauth library.
//
// These utilities are used internally by multiple packages to avoid code duplication
// and keep diagnostic logging consistent.
//
// Key utilities:
//   - SafeTruncate: Safely truncates strings for logging sensitive data
//   - MaskSecret: Renders tokens and secrets as a short prefix
//   - RedactFields: Masks secret fields of a decoded JSON body before logging
package util
