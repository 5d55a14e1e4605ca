package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/leapstack-labs/leapmodel/pkg/loader"
	"github.com/leapstack-labs/leapmodel/pkg/model"
	"github.com/stretchr/testify/require"
)

// loadTree reads a fixture from testdata into a fresh generic tree.
func loadTree(t *testing.T, name string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, is := loader.Load(string(data))
	require.Nil(t, is)
	return doc.Tree
}

// loadDoc reads and decodes a fixture from testdata.
func loadDoc(t *testing.T, name string) *model.Document {
	t.Helper()
	doc, err := model.Decode(loadTree(t, name))
	require.NoError(t, err)
	return doc
}

// codesAt renders issues as CODE@path for compact assertions.
func codesAt(issues []lint.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Code+"@"+is.Path)
	}
	return out
}

// findCode returns the first issue with the given code.
func findCode(issues []lint.Issue, code string) (lint.Issue, bool) {
	for _, is := range issues {
		if is.Code == code {
			return is, true
		}
	}
	return lint.Issue{}, false
}

func countCode(issues []lint.Issue, code string) int {
	n := 0
	for _, is := range issues {
		if is.Code == code {
			n++
		}
	}
	return n
}

// dig walks a generic tree by keys and indices.
func dig(tree map[string]any, segs ...any) any {
	var cur any = tree
	for _, s := range segs {
		switch k := s.(type) {
		case string:
			cur = cur.(map[string]any)[k]
		case int:
			cur = cur.([]any)[k]
		}
	}
	return cur
}

func obj(tree map[string]any, segs ...any) map[string]any {
	return dig(tree, segs...).(map[string]any)
}

func boolPtr(b bool) *bool { return &b }
