package dump

import (
	"encoding/json"

	"ceeify/internal/ast"
)

// nodeRecord is one AST node's JSON shape: spec.md §6's `{type, depth,
// token, ...}` field set, `type` the node Kind, `depth` the node's Indent,
// `token` its originating lexeme, with Children walking Body/OrElse in
// source order.
type nodeRecord struct {
	Type     string       `json:"type"`
	Depth    int          `json:"depth"`
	Token    string       `json:"token"`
	DataType string       `json:"data_type,omitempty"`
	Children []nodeRecord `json:"children,omitempty"`
}

func blockRecords(b *ast.Block) []nodeRecord {
	if b == nil {
		return nil
	}
	out := make([]nodeRecord, 0, b.Len())
	b.Each(func(n *ast.Node) bool {
		out = append(out, nodeToRecord(n))
		return true
	})
	return out
}

func nodeToRecord(n *ast.Node) nodeRecord {
	rec := nodeRecord{
		Type:  n.Kind.String(),
		Depth: n.Indent,
		Token: n.Token.Lexeme,
	}
	if n.Type != ast.UNKNOWN {
		rec.DataType = n.Type.String()
	}

	var children []nodeRecord
	if n.Left != nil {
		children = append(children, nodeToRecord(n.Left))
	}
	if n.Right != nil {
		children = append(children, nodeToRecord(n.Right))
	}
	if n.Value != nil {
		children = append(children, nodeToRecord(n.Value))
	}
	if n.Test != nil {
		children = append(children, nodeToRecord(n.Test))
	}
	if n.Object != nil {
		children = append(children, nodeToRecord(n.Object))
	}
	if n.Callee != nil {
		children = append(children, nodeToRecord(n.Callee))
	}
	for _, a := range n.Args {
		children = append(children, nodeToRecord(a))
	}
	for _, target := range n.Targets {
		children = append(children, nodeToRecord(target))
	}
	children = append(children, blockRecords(n.Body)...)
	children = append(children, blockRecords(n.OrElse)...)
	rec.Children = children
	return rec
}

// ASTJSON renders block as a JSON array of nodeRecord.
func ASTJSON(block *ast.Block) ([]byte, error) {
	return json.MarshalIndent(blockRecords(block), "", "  ")
}

// ASTTable renders a flattened, indent-prefixed listing of block as a
// rosed table — one row per node, in a pre-order walk.
func ASTTable(block *ast.Block) string {
	data := [][]string{{"Kind", "Token", "Type", "Indent"}}
	var walk func(*ast.Block)
	walk = func(b *ast.Block) {
		if b == nil {
			return
		}
		b.Each(func(n *ast.Node) bool {
			data = append(data, []string{
				n.Kind.String(), n.Token.Lexeme, n.Type.String(), itoa(n.Indent),
			})
			walk(n.Body)
			walk(n.OrElse)
			return true
		})
	}
	walk(block)
	return renderTable(data)
}
