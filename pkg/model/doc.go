// Package model defines the shared language of the leapmodel system.
//
// This package contains:
//   - The typed model document (Document, Entity, Field, Relationship, ...)
//   - Closed enumerations as read-only lookup tables (entity kinds, cardinalities, ...)
//   - Naming predicates (IsEntityName, IsSnakeName, IsFieldRef, ...)
//   - Lenient decoding of a generic YAML tree into a Document
//
// The Golden Rule: pkg/model imports no other leapmodel package.
// All other packages depend on model, not the reverse.
package model
