// Package pep440 implements PEP 440 -- Version Identification and Dependency
// Specification.
//
// https://www.python.org/dev/peps/pep-0440/
//
// Version identifiers and version specifiers are both modeled as plain Go
// values that can be parsed, rendered canonically, and compared.
// MergeSpecifiers implements the clause arithmetic needed when several
// requirements on the same project are collapsed into one.
package pep440
