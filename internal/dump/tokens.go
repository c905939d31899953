package dump

import (
	"encoding/json"
	"strconv"

	"ceeify/internal/token"
)

func itoa(n int) string { return strconv.Itoa(n) }

// tokenRecord is the JSON shape of one token, following spec.md §6's
// `{type, depth, token, ...}` field set: `type` is the token kind, `token`
// is its lexeme, `depth` repurposed here as the indent level (tokens have
// no tree depth of their own).
type tokenRecord struct {
	Type  string `json:"type"`
	Token string `json:"token"`
	Depth int    `json:"depth"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
}

// TokensJSON renders toks as a JSON array of tokenRecord.
func TokensJSON(toks []token.Token) ([]byte, error) {
	records := make([]tokenRecord, len(toks))
	for i, t := range toks {
		records[i] = tokenRecord{
			Type:  t.Kind.String(),
			Token: t.Lexeme,
			Depth: t.Indent,
			Line:  t.Line,
			Col:   t.Col,
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

// TokensTable renders toks as a rosed table, grounded on
// internal/game/debug.go's ListFlags/ListNPCs header-row convention.
func TokensTable(toks []token.Token) string {
	data := [][]string{{"Kind", "Lexeme", "Line", "Col", "Indent"}}
	for _, t := range toks {
		data = append(data, []string{
			t.Kind.String(), t.Lexeme,
			itoa(t.Line), itoa(t.Col), itoa(t.Indent),
		})
	}
	return renderTable(data)
}
