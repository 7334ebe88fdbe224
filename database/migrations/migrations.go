// Package migrations holds the relational schema. Each migration registers
// itself from init(); importing the package (blank import is enough) makes
// them visible to the runner.
package migrations
