// Package lint defines the issue taxonomy shared by every validation pass.
//
// # Issues
//
// Every finding is an Issue: a severity, a stable machine-readable code, a human
// message and a slash-delimited path into the document (for example
// /entities/2/fields/0/name). Issues are data; expected problems in a document are
// never reported as Go errors.
//
// # Accumulation
//
// Passes append to an explicit Builder that is threaded through the traversal:
//
//	b := lint.NewBuilder()
//	b.Errorf(lint.CodeInvalidEntityName, "/entities/0/name", "entity name %q must be PascalCase", name)
//	issues := b.Issues()
//
// # Catalog
//
// All codes are registered in a compile-time catalog with their group and default
// severity. Presentation layers use Lookup to partition the flat issue list into
// structure, semantic and nudge categories:
//
//	info, ok := lint.Lookup("MISSING_PRIMARY_KEY")
//	fmt.Println(info.Group) // semantic
//
// # Configuration
//
// Config filters issues for display. It can disable codes and raise the minimum
// severity, but it never hides errors:
//
//	cfg := lint.NewConfig()
//	cfg.Disable("MISSING_OWNER")
//	visible := cfg.Filter(issues)
package lint
