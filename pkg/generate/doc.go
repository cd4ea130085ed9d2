// Package generate holds what the coupler, job script, and hydrology
// generators share: the error taxonomy, the Artifact type, the Sink that
// persists artifacts, and the options that customise a pass.
//
// Every generator renders all of its artifacts in memory and validates its
// configuration before the first write, so configuration and lookup errors
// never leave files behind. I/O errors abort the pass where they happen; files
// already written are left on disk and reported through PartialError.
package generate
