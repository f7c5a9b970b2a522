package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	goshape "github.com/reoring/goshape"
)

// HCLBytes decodes an HCL native-syntax document. Attributes become record
// keys. Unlabeled blocks are collected into a list under their type; labeled
// blocks are nested under their labels. Expressions are evaluated without
// variables or functions.
func HCLBytes(data []byte, filename string) goshape.Source {
	return goshape.SourceFunc(func(context.Context) (any, error) {
		file, diags := hclparse.NewParser().ParseHCL(data, filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("source: parse hcl %s: %w", filename, diags)
		}
		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			return nil, errors.New("source: unexpected hcl body type")
		}
		return decodeBody(body)
	})
}

func decodeBody(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("source: evaluate %s: %w", name, diags)
		}
		v, err := fromCty(val)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", name, err)
		}
		out[name] = v
	}
	for _, block := range body.Blocks {
		inner, err := decodeBody(block.Body)
		if err != nil {
			return nil, err
		}
		if len(block.Labels) == 0 {
			list, _ := out[block.Type].([]any)
			out[block.Type] = append(list, inner)
			continue
		}
		parent, _ := out[block.Type].(map[string]any)
		if parent == nil {
			parent = map[string]any{}
			out[block.Type] = parent
		}
		for _, label := range block.Labels[:len(block.Labels)-1] {
			next, _ := parent[label].(map[string]any)
			if next == nil {
				next = map[string]any{}
				parent[label] = next
			}
			parent = next
		}
		parent[block.Labels[len(block.Labels)-1]] = inner
	}
	return out, nil
}

// fromCty converts a known cty value into the loose value model.
func fromCty(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, errors.New("value is not known")
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			v, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case ty.IsMapType(), ty.IsObjectType():
		out := map[string]any{}
		for it := val.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			v, err := fromCty(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported hcl type %s", ty.FriendlyName())
}
