package engine

import (
	"github.com/goliatone/go-formprompt/internal/model"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

// finalize layers type defaults, catalog and template validation, and
// prompt overrides, drops rules the final type does not accept and
// defaults required to false.
func finalize(ws *workset) []model.Field {
	out := make([]model.Field, 0, len(ws.list))
	for _, c := range ws.list {
		f := c.field
		v := catalog.MergeValidation(catalog.TypeDefaults(f.Type), c.base, c.overrides).Restrict(f.Type)
		if _, ok := v[catalog.RuleRequired]; !ok {
			v[catalog.RuleRequired] = false
		}
		f.Validation = v
		if f.Options != nil {
			f.Options = append([]string(nil), f.Options...)
		}
		out = append(out, f)
	}
	return out
}
