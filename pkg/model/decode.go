package model

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Decode converts a generic YAML tree into a Document.
//
// Decoding is lenient: values of the wrong shape are skipped and the rest of the
// document is still populated, so semantic checks can run on a document that has
// structural errors. The returned error lists what was skipped; callers that already
// ran structural validation usually ignore it.
func Decode(tree map[string]any) (*Document, error) {
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook:       importHook,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(tree); err != nil {
		return &doc, fmt.Errorf("decode model: %w", err)
	}
	return &doc, nil
}

var importType = reflect.TypeOf(Import{})

// importHook lets meta.imports entries be written as a bare path string.
func importHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != importType || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]any{"path": data}, nil
}
