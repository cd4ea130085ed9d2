// Package orchestrator runs the generators named by a plan as one pass. Every
// requested section is built and validated before any file is written, so a
// configuration error in one section leaves the whole output tree untouched.
package orchestrator
