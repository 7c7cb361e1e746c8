package script

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// The HCL frontend represents a script file as blocks:
//
//	script {
//	  id  = "install-dxvk"
//	  cmd = "setup_dxvk install"
//	}
//
//	require {
//	  values = ["x86_64"]
//	  in     = ["x86_64", "aarch64"]
//	}
//
//	synced { cmd = "wineboot -u" }
//
// Each block's attributes are lowered to the same generic values the TOML
// and JSON frontends produce, then handed to the shared decoder.

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "script"},
		{Type: "env"},
		{Type: "require"},
		{Type: "assert"},
		{Type: "synced"},
		{Type: "parallel"},
	},
}

func parseHCL(data []byte, filename string) (*File, error) {
	hclFile, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl: %w", diags)
	}

	content, diags := hclFile.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl: %w", diags)
	}

	raw := make(map[string]any)
	for _, block := range content.Blocks {
		entry, err := blockToRaw(block)
		if err != nil {
			return nil, err
		}

		switch block.Type {
		case "script", "env":
			if _, dup := raw[block.Type]; dup {
				return nil, fmt.Errorf("parse hcl: duplicate %s block", block.Type)
			}
			raw[block.Type] = entry
		default:
			list, _ := raw[block.Type].([]any)
			raw[block.Type] = append(list, entry)
		}
	}

	return fileFromRaw(raw)
}

// blockToRaw lowers a block's attributes into generic values.
func blockToRaw(block *hcl.Block) (map[string]any, error) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl: %w", diags)
	}

	entry := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		// Script files carry no expressions; attributes must be literals.
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse hcl: %w", diags)
		}
		lowered, err := ctyToAny(val)
		if err != nil {
			return nil, fmt.Errorf("parse hcl: attribute %s: %w", name, err)
		}
		entry[name] = lowered
	}
	return entry, nil
}

func ctyToAny(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("null value")
	}

	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True(), nil

	case ty == cty.String, ty == cty.Number:
		// Numbers are lowered through string conversion so spellings like
		// in = [1, 2] mean the same thing as their quoted forms.
		strVal, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, err
		}
		return strVal.AsString(), nil

	case ty.IsTupleType(), ty.IsListType(), ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			lowered, err := ctyToAny(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, lowered)
		}
		return out, nil

	case ty.IsObjectType(), ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			lowered, err := ctyToAny(elem)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = lowered
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
