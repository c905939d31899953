package dump

import (
	"encoding/json"
	"strconv"

	"ceeify/internal/tac"
)

// instrRecord is one TAC instruction's JSON shape.
type instrRecord struct {
	Op     string `json:"op"`
	LHS    string `json:"lhs,omitempty"`
	RHS    string `json:"rhs,omitempty"`
	Result string `json:"result,omitempty"`
	Label  string `json:"label,omitempty"`
	CmpOp  string `json:"cmp_op,omitempty"`
}

func valueString(v tac.Value) string {
	if v.Type.String() == "none" && v.ID == 0 {
		return ""
	}
	return "(" + strconv.Itoa(v.ID) + ":" + v.Type.String() + ")"
}

func instrToRecord(in tac.Instruction) instrRecord {
	return instrRecord{
		Op:     in.Op.String(),
		LHS:    valueString(in.LHS),
		RHS:    valueString(in.RHS),
		Result: valueString(in.Result),
		Label:  in.Label,
		CmpOp:  in.CmpOp,
	}
}

// constRecord is one constant-pool entry's JSON shape.
type constRecord struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// tacDump is the full JSON shape of a Program: its instruction stream
// followed by its constant pool, mirroring spec.md §4.4's two-part output.
type tacDump struct {
	Instructions []instrRecord `json:"instructions"`
	Constants    []constRecord `json:"constants"`
}

// TACJSON renders prog as JSON.
func TACJSON(prog *tac.Program) ([]byte, error) {
	dump := tacDump{
		Instructions: make([]instrRecord, len(prog.Instructions)),
		Constants:    make([]constRecord, len(prog.Constants)),
	}
	for i, in := range prog.Instructions {
		dump.Instructions[i] = instrToRecord(in)
	}
	for i, c := range prog.Constants {
		dump.Constants[i] = constRecord{Index: i, Type: c.Type.String(), Value: c.Canon}
	}
	return json.MarshalIndent(dump, "", "  ")
}

// TACTable renders prog's instruction stream as a rosed table.
func TACTable(prog *tac.Program) string {
	data := [][]string{{"#", "Op", "LHS", "RHS", "Result", "Label", "CmpOp"}}
	for i, in := range prog.Instructions {
		rec := instrToRecord(in)
		data = append(data, []string{
			itoa(i), rec.Op, rec.LHS, rec.RHS, rec.Result, rec.Label, rec.CmpOp,
		})
	}
	return renderTable(data)
}
