package semantic

import (
	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/spirvcodec"
)

// Inline clones every Semantic's function body from m's own Context (the one
// Load built by deserializing the semantic module in isolation) into dest,
// appending the clones to destMod.Functions, and returns a new Module whose
// Semantics point at the clones (spec §3, "On load, the recompiler inlines
// this module's types, constants, and globals into the current context").
//
// Every register-named global the semantic module declares is pinned to
// dest's own variable for that register (materialized via regVar, normally
// the same lazily-created-on-first-use variable the lifter's register
// accesses go through) rather than cloned, so a semantic function's reads
// and writes land on the exact storage the lifted caller uses. A semantic
// module is not expected to declare any other global (spec §4.4 describes
// its surface as parameters plus register-file variables only); Inline does
// not special-case one.
func Inline(dest *ir.Context, destMod *spirvcodec.Module, m *Module, regVar func(ra RegisterAccess) *ir.Instruction) *Module {
	cm := ir.NewCloneMap(dest)

	for _, s := range m.byName {
		for _, ra := range s.Registers {
			if ra.Variable == nil {
				continue
			}
			if _, already := cm.Get(ra.Variable); already {
				continue
			}
			cm.PinTo(ra.Variable, regVar(ra))
		}
	}

	out := &Module{byName: make(map[string]*Semantic, len(m.byName))}
	funcsB := ir.NewBuilderAtEnd(dest, destMod.Functions)

	done := make(map[*ir.Instruction]bool)
	for mnemonic, s := range m.byName {
		clonedFunc := cm.Clone(s.Func)
		if !done[clonedFunc] {
			done[clonedFunc] = true
			appendFunctionBody(funcsB, s.Func, cm)
		}

		newS := &Semantic{
			Mnemonic: mnemonic,
			Func:     clonedFunc,
			FuncType: dest.InternType(s.FuncType),
		}
		for _, p := range s.Params {
			newS.Params = append(newS.Params, Param{Type: dest.InternType(p.Type), Access: p.Access})
		}
		for _, ra := range s.Registers {
			v := ra.Variable
			if v != nil {
				if cv, ok := cm.Get(v); ok {
					v = cv
				}
			}
			newS.Registers = append(newS.Registers, RegisterAccess{Register: ra.Register, Access: ra.Access, Variable: v})
		}
		out.byName[mnemonic] = newS
	}

	return out
}

// appendFunctionBody walks src's original function (OpFunction through its
// matching OpFunctionEnd, a flat span since SPIR-V functions never nest) and
// clones each instruction in order into funcsB.
func appendFunctionBody(funcsB *ir.Builder, src *ir.Instruction, cm *ir.CloneMap) {
	for i := src; i != nil; i = i.Next() {
		funcsB.Append(cm.Clone(i))
		if i.Op == dialect.OpFunctionEnd {
			return
		}
	}
}
