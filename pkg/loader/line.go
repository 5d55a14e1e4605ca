package loader

import (
	"strconv"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"gopkg.in/yaml.v3"
)

// Line resolves a slash pointer to its 1-based source line. When the pointer
// names a node that does not exist, the line of the deepest existing ancestor is
// returned. A nil document yields 0.
func (d *Document) Line(path string) int {
	if d == nil || d.Node == nil {
		return 0
	}
	n := d.Node
	for _, seg := range lint.SplitPath(path) {
		next := child(n, seg)
		if next == nil {
			break
		}
		n = next
	}
	return n.Line
}

// child returns the node addressed by seg under n, or nil.
func child(n *yaml.Node, seg string) *yaml.Node {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == seg {
				return resolveAlias(n.Content[i+1])
			}
		}
	case yaml.SequenceNode:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(n.Content) {
			return nil
		}
		return resolveAlias(n.Content[idx])
	}
	return nil
}

// Annotate fills in Line for every issue that has a path.
func (d *Document) Annotate(issues []lint.Issue) {
	for i := range issues {
		if issues[i].Line == 0 {
			issues[i].Line = d.Line(issues[i].Path)
		}
	}
}
