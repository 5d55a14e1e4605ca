package canonical

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/leapstack-labs/leapmodel/pkg/model"
	"gopkg.in/yaml.v3"
)

// Lossy reports the paths of source values that the canonical rendering of
// text would not reproduce: mapping keys with no place in model.Document, and
// timestamp scalars, which come back out as quoted strings. An empty result
// means Marshal only reorders the document. Values whose shape does not match
// the model are left to structural validation.
func Lossy(text string) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		w := &lossWalker{}
		w.walk(root.Content[0], documentType, "/")
		sort.Strings(w.lost)
		return w.lost, nil
	}
	return nil, nil
}

var documentType = reflect.TypeOf(model.Document{})

type lossWalker struct {
	lost []string
}

func (w *lossWalker) walk(n *yaml.Node, t reflect.Type, path string) {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			w.lost = append(w.lost, path)
		}
	case yaml.SequenceNode:
		elem, ok := elemType(t)
		if !ok {
			return
		}
		for i, item := range n.Content {
			w.walk(item, elem, lint.Join(path, i))
		}
	case yaml.MappingNode:
		w.mapping(n, t, path)
	}
}

func (w *lossWalker) mapping(n *yaml.Node, t reflect.Type, path string) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Value == "<<" && key.ShortTag() == "!!merge" {
			w.walk(val, t, path)
			continue
		}

		child := lint.Join(path, key.Value)
		switch t.Kind() {
		case reflect.Struct:
			ft, ok := fieldByTag(t, key.Value)
			if !ok {
				w.lost = append(w.lost, child)
				continue
			}
			w.walk(val, ft, child)
		case reflect.Map:
			w.walk(val, t.Elem(), child)
		case reflect.Interface:
			w.walk(val, t, child)
		}
	}
}

func elemType(t reflect.Type) (reflect.Type, bool) {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem(), true
	case reflect.Interface:
		return t, true
	}
	return nil, false
}

func fieldByTag(t reflect.Type, name string) (reflect.Type, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if tag == name {
			return f.Type, true
		}
	}
	return nil, false
}
