// Package coupler generates Cassandra coupler configuration files: one
// sectioned .cfg per scenario, model, and run index, with optional Xanthos
// and fldgen component sections.
//
// Each fldgen section carries an RNG seed derived from the file's own output
// path (see package seed), so regenerating into the same path reproduces the
// same seed.
package coupler
