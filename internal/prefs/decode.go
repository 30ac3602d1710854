package prefs

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	cty "github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

func decodeYAML(src []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return raw, nil
}

// decodeHCL reads top-level attributes only. Values must be literals.
func decodeHCL(name string, src []byte) (map[string]any, error) {
	p := hclparse.NewParser()
	f, diags := p.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := f.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	raw := make(map[string]any, len(attrs))
	for key, a := range attrs {
		v, d := a.Expr.Value(nil)
		if d.HasErrors() {
			diags = append(diags, d...)
			continue
		}
		raw[key] = fromCty(v)
	}
	if diags.HasErrors() {
		return raw, diags
	}
	return raw, nil
}

func fromCty(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Bool:
		return v.True()
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return i
		}
		f, _ := bf.Float64()
		return f
	}
	return v.GoString()
}
