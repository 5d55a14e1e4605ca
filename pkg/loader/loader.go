// Package loader turns raw model text into a generic tree the validators can walk.
package loader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"gopkg.in/yaml.v3"
)

// Document is a successfully parsed model document.
type Document struct {
	// Tree is the generic form of the document with string keys at every level.
	Tree map[string]any
	// Node is the root mapping node, kept for source line lookup.
	Node *yaml.Node
	// Foreign is set when the document looks like another tool's schema file.
	Foreign bool
}

// foreignSections are top-level arrays typical of version 2 schema files.
var foreignSections = []string{"models", "sources", "semantic_models", "metrics"}

var errLinePattern = regexp.MustCompile(`line (\d+)`)

// Load parses text. On failure it returns a single fatal issue and no document;
// nothing downstream may run on a document that failed to load.
func Load(text string) (*Document, *lint.Issue) {
	if strings.TrimSpace(text) == "" {
		return nil, parseIssue(errors.New("document is empty"))
	}

	var file yaml.Node
	if err := yaml.Unmarshal([]byte(text), &file); err != nil {
		return nil, parseIssue(err)
	}
	if file.Kind != yaml.DocumentNode || len(file.Content) == 0 {
		return nil, parseIssue(errors.New("document is empty"))
	}

	root := resolveAlias(file.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, &lint.Issue{
			Severity: lint.SeverityError,
			Code:     lint.CodeRootNotObject,
			Message:  fmt.Sprintf("document root must be a mapping, got %s", kindName(root)),
			Path:     "/",
			Line:     root.Line,
		}
	}

	var raw any
	if err := root.Decode(&raw); err != nil {
		return nil, parseIssue(err)
	}
	tree, _ := Normalize(raw).(map[string]any)
	if tree == nil {
		tree = map[string]any{}
	}

	return &Document{
		Tree:    tree,
		Node:    root,
		Foreign: isForeign(tree),
	}, nil
}

// ForeignIssue is the single advisory reported for foreign documents.
func ForeignIssue() lint.Issue {
	return lint.Issue{
		Severity: lint.SeverityWarn,
		Code:     lint.CodeForeignSchemaDetected,
		Message:  "document looks like a version 2 schema file from another tool; skipping model validation",
		Path:     "/",
	}
}

func parseIssue(err error) *lint.Issue {
	is := &lint.Issue{
		Severity: lint.SeverityError,
		Code:     lint.CodeYAMLParseError,
		Message:  fmt.Sprintf("failed to parse YAML: %v", err),
		Path:     "/",
	}
	if m := errLinePattern.FindStringSubmatch(err.Error()); m != nil {
		is.Line, _ = strconv.Atoi(m[1])
	}
	return is
}

func isForeign(tree map[string]any) bool {
	if !isVersionTwo(tree["version"]) {
		return false
	}
	for _, key := range foreignSections {
		if _, ok := tree[key].([]any); ok {
			return true
		}
	}
	return false
}

func isVersionTwo(v any) bool {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return s == "2" || s == "2.0"
	case int:
		return val == 2
	case int64:
		return val == 2
	case uint64:
		return val == 2
	case float64:
		return val == 2
	default:
		return false
	}
}

// Normalize converts a decoded YAML value into a tree whose mappings all use
// string keys. Timestamps are rendered back to RFC 3339 strings.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = Normalize(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[keyString(k)] = Normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Normalize(child)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

func keyString(k any) string {
	if k == nil {
		return ""
	}
	return fmt.Sprint(k)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "a scalar"
	default:
		return "an unsupported node"
	}
}
