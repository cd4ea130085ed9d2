// Package templates bundles the default job script and Xanthos configuration
// templates and loads caller-supplied replacements from disk.
package templates
