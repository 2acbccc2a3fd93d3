// Package config turns a structured network description into layer specs and
// layers.
//
// A document is YAML (or JSON, which YAML accepts) with a top-level "layers"
// list. Each entry names its type and may carry a params mapping:
//
//	layers:
//	  - type: conv2d
//	    params:
//	      kernel_size: 3
//	      stride: 1
//	      padding: 1
//	  - type: relu
//	  - type: flatten
//
// Other top-level keys are ignored. Parameters are passed through without
// interpretation; nn.Build validates them.
package config

import (
	"strings"

	"github.com/born-ml/netshape/internal/nn"
	"gopkg.in/yaml.v3"
)

// LayerSpec is a layer description before construction.
type LayerSpec struct {
	Type   string
	Params nn.Params

	// Line is the 1-based line of the entry in the document, 0 if unknown.
	Line int
}

// Parse converts a document into an ordered list of LayerSpecs.
//
// Errors are *FormatError values categorized as ErrMalformedDocument,
// ErrMissingLayers or ErrMissingType. No partial list is returned.
func Parse(document []byte) ([]LayerSpec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(document, &root); err != nil {
		return nil, &FormatError{Kind: ErrMalformedDocument, Index: -1, Msg: "invalid YAML", Err: err}
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	doc = resolve(doc)
	if doc.Kind == 0 || doc.Kind == yaml.DocumentNode || isNull(doc) {
		return nil, &FormatError{Kind: ErrMalformedDocument, Index: -1, Msg: "empty document"}
	}
	if doc.Kind != yaml.MappingNode {
		return nil, &FormatError{
			Kind:  ErrMalformedDocument,
			Index: -1,
			Line:  doc.Line,
			Msg:   "top level must be a mapping, got " + describe(doc),
		}
	}

	layers := lookup(doc, "layers")
	if layers == nil || isNull(layers) {
		return nil, &FormatError{
			Kind:  ErrMissingLayers,
			Index: -1,
			Msg:   "document must contain a 'layers' list",
		}
	}
	if layers.Kind != yaml.SequenceNode {
		return nil, &FormatError{
			Kind:  ErrMissingLayers,
			Index: -1,
			Line:  layers.Line,
			Msg:   "'layers' must be a list, got " + describe(layers),
		}
	}

	specs := make([]LayerSpec, 0, len(layers.Content))
	for i, entry := range layers.Content {
		spec, err := parseEntry(i, resolve(entry))
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseEntry(index int, entry *yaml.Node) (LayerSpec, error) {
	if entry.Kind != yaml.MappingNode {
		return LayerSpec{}, &FormatError{
			Kind:  ErrMissingType,
			Index: index,
			Line:  entry.Line,
			Msg:   "each layer must be a mapping with a 'type' field, got " + describe(entry),
		}
	}

	typ := lookup(entry, "type")
	if typ == nil || typ.Kind != yaml.ScalarNode || isNull(typ) || strings.TrimSpace(typ.Value) == "" {
		return LayerSpec{}, &FormatError{
			Kind:  ErrMissingType,
			Index: index,
			Line:  entry.Line,
			Msg:   "each layer must have a 'type' field",
		}
	}

	spec := LayerSpec{
		Type:   strings.TrimSpace(typ.Value),
		Params: nn.Params{},
		Line:   entry.Line,
	}

	params := lookup(entry, "params")
	if params == nil || isNull(params) {
		return spec, nil
	}
	if params.Kind != yaml.MappingNode {
		return LayerSpec{}, &FormatError{
			Kind:  ErrMalformedDocument,
			Index: index,
			Line:  params.Line,
			Msg:   "'params' must be a mapping, got " + describe(params),
		}
	}
	if err := params.Decode(&spec.Params); err != nil {
		return LayerSpec{}, &FormatError{
			Kind:  ErrMalformedDocument,
			Index: index,
			Line:  params.Line,
			Msg:   "invalid params",
			Err:   err,
		}
	}
	return spec, nil
}

// lookup returns the value node for key in a mapping node, or nil.
//
// Keys set directly on the mapping win over keys pulled in with a "<<"
// merge key. A merge of several mappings prefers the earliest.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	var merges []*yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k := mapping.Content[i]
		if k.ShortTag() == "!!merge" {
			merges = append(merges, resolve(mapping.Content[i+1]))
			continue
		}
		if k.Value == key {
			return resolve(mapping.Content[i+1])
		}
	}

	for _, merged := range merges {
		sources := []*yaml.Node{merged}
		if merged.Kind == yaml.SequenceNode {
			sources = merged.Content
		}
		for _, src := range sources {
			if src = resolve(src); src.Kind != yaml.MappingNode {
				continue
			}
			if v := lookup(src, key); v != nil {
				return v
			}
		}
	}
	return nil
}

// resolve follows alias nodes to their anchors.
func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar " + node.ShortTag()
	default:
		return "unknown node"
	}
}
