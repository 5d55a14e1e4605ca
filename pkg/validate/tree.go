package validate

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/leapstack-labs/leapmodel/pkg/model"
)

// node wraps a value of the generic tree together with its pointer.
type node struct {
	val  any
	path string
}

func (n node) at(seg any) node {
	var v any
	switch s := seg.(type) {
	case string:
		if m, ok := n.val.(map[string]any); ok {
			v = m[s]
		}
	case int:
		if l, ok := n.val.([]any); ok && s >= 0 && s < len(l) {
			v = l[s]
		}
	}
	return node{val: v, path: lint.Join(n.path, seg)}
}

func (n node) present() bool { return n.val != nil }

func (n node) asMap() (map[string]any, bool) {
	m, ok := n.val.(map[string]any)
	return m, ok
}

func (n node) asList() ([]any, bool) {
	l, ok := n.val.([]any)
	return l, ok
}

func (n node) asString() (string, bool) {
	s, ok := n.val.(string)
	return s, ok
}

// sortedKeys returns the keys of a mapping in deterministic order.
func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// typeName describes a tree value for messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "mapping"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// walker carries the builder through the structural pass.
type walker struct {
	b *lint.Builder
}

func (w *walker) wrongType(n node, want string) {
	w.b.Errorf(lint.CodeInvalidType, n.path, "expected %s, got %s", want, typeName(n.val))
}

// object returns the mapping at n. Missing values are not reported here.
func (w *walker) object(n node) (map[string]any, bool) {
	if !n.present() {
		return nil, false
	}
	m, ok := n.asMap()
	if !ok {
		w.wrongType(n, "mapping")
	}
	return m, ok
}

// list returns the list at n. Missing values are not reported here.
func (w *walker) list(n node) ([]any, bool) {
	if !n.present() {
		return nil, false
	}
	l, ok := n.asList()
	if !ok {
		w.wrongType(n, "list")
	}
	return l, ok
}

// requiredString reports a missing or blank string and returns its value.
func (w *walker) requiredString(parent node, key string) (string, bool) {
	n := parent.at(key)
	if !n.present() {
		w.b.Errorf(lint.CodeMissingRequiredField, n.path, "missing required field %q", key)
		return "", false
	}
	s, ok := n.asString()
	if !ok {
		w.wrongType(n, "string")
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		w.b.Errorf(lint.CodeMissingRequiredField, n.path, "required field %q is empty", key)
		return "", false
	}
	return s, true
}

// optionalString type-checks an optional string and returns it if present.
func (w *walker) optionalString(parent node, key string) (string, bool) {
	n := parent.at(key)
	if !n.present() {
		return "", false
	}
	s, ok := n.asString()
	if !ok {
		w.wrongType(n, "string")
	}
	return s, ok
}

func (w *walker) optionalBool(parent node, key string) (bool, bool) {
	n := parent.at(key)
	if !n.present() {
		return false, false
	}
	v, ok := n.val.(bool)
	if !ok {
		w.wrongType(n, "boolean")
	}
	return v, ok
}

func (w *walker) optionalObject(parent node, key string) {
	w.object(parent.at(key))
}

// stringList type-checks an optional list of strings and calls each for every
// string element.
func (w *walker) stringList(parent node, key string, each func(s string, n node)) []string {
	n := parent.at(key)
	l, ok := w.list(n)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for i := range l {
		item := n.at(i)
		s, ok := item.asString()
		if !ok {
			w.wrongType(item, "string")
			continue
		}
		out = append(out, s)
		if each != nil {
			each(s, item)
		}
	}
	return out
}

// email validates an optional email string.
func (w *walker) email(parent node, key string) {
	if s, ok := w.optionalString(parent, key); ok && !model.IsEmail(s) {
		w.b.Errorf(lint.CodeInvalidEmail, parent.at(key).path, "%q is not a valid email address", s)
	}
}
