// Package validate checks model documents.
//
// Structure runs purely local checks over the generic tree produced by the
// loader: required keys, YAML types, naming conventions and enum membership.
// Semantics runs cross-reference checks over the decoded model: duplicates,
// referential integrity, primary key and grain requirements, relationship
// cycles, deprecation notices and advisory nudges.
//
// Both passes accumulate every finding into a lint.Builder; neither stops at
// the first problem.
package validate
