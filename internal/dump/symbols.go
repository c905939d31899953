package dump

import (
	"encoding/json"

	"ceeify/internal/sema"
)

// symbolRecord is one Symbol's JSON shape.
type symbolRecord struct {
	Name      string         `json:"name"`
	Kind      string         `json:"kind"`
	DataType  string         `json:"data_type"`
	BaseClass string         `json:"base_class,omitempty"`
	Depth     int            `json:"depth"`
	Children  []symbolRecord `json:"children,omitempty"`
}

func scopeRecords(scope *sema.Scope, depth int) []symbolRecord {
	if scope == nil {
		return nil
	}
	names := scope.Names()
	out := make([]symbolRecord, 0, len(names))
	for _, name := range names {
		sym, _ := scope.LookupLocal(name)
		rec := symbolRecord{
			Name:     sym.Name,
			Kind:     sym.Kind.String(),
			DataType: sym.DType.String(),
			Depth:    depth,
		}
		if sym.BaseClass != nil {
			rec.BaseClass = sym.BaseClass.Name
		}
		if sym.Scope != nil {
			rec.Children = scopeRecords(sym.Scope, depth+1)
		}
		out = append(out, rec)
	}
	return out
}

// SymbolsJSON renders the symbol table rooted at module as a JSON array,
// function/class scopes nested under their owner symbol's "children".
func SymbolsJSON(module *sema.Scope) ([]byte, error) {
	return json.MarshalIndent(scopeRecords(module, 0), "", "  ")
}

// SymbolsTable renders a flattened listing of the symbol table as a rosed
// table, one row per symbol across every nested scope.
func SymbolsTable(module *sema.Scope) string {
	data := [][]string{{"Name", "Kind", "Type", "Base", "Depth"}}
	var walk func([]symbolRecord)
	walk = func(recs []symbolRecord) {
		for _, r := range recs {
			data = append(data, []string{r.Name, r.Kind, r.DataType, r.BaseClass, itoa(r.Depth)})
			walk(r.Children)
		}
	}
	walk(scopeRecords(module, 0))
	return renderTable(data)
}
