// Package semantic loads a SPIR-V "semantic module": a small library, built
// by whatever toolchain produced the GCN binary's environment, that supplies
// a hand-written SPIR-V function body for one GCN mnemonic. The lifter calls
// into these instead of synthesizing arithmetic itself wherever a semantic
// module covers the mnemonic (spec §4.4, §4.5).
package semantic

import (
	"strings"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
)

// Param describes one parameter of a Semantic's function: its SPIR-V type,
// and how the lifter must treat the GCN register argument it receives.
type Param struct {
	Type   *ir.Type
	Access dialect.Access
}

// Semantic is one exported function of a loaded Module, bound to the GCN
// mnemonic its name matched.
type Semantic struct {
	Mnemonic string
	Func     *ir.Instruction // the OpFunction
	FuncType *ir.Type
	Params   []Param

	// Registers lists the logical registers the function body reads or
	// writes directly (through OpName-tagged OpVariable globals), beyond
	// its parameters — e.g. a semantic function that also touches SCC.
	Registers []RegisterAccess
}

// RegisterAccess pairs a register-file entry with how a semantic function
// uses it, and the OpVariable (owned by the semantic module's own Context)
// realizing it, so Inline can pin it to the destination Context's variable
// for the same register instead of cloning a second copy of it.
type RegisterAccess struct {
	Register regfile.Register
	Access   dialect.Access
	Variable *ir.Instruction
}

// ReturnType reports the function's result type, nil for a void-returning
// semantic.
func (s *Semantic) ReturnType() *ir.Type {
	if s.FuncType == nil {
		return nil
	}
	return s.FuncType.Result
}

// Module is a loaded semantic library, indexed for lookup by mnemonic.
type Module struct {
	byName map[string]*Semantic
}

// Lookup finds the Semantic bound to (d, op)'s mnemonic, trying the wide
// (family-prefixed) name first, then the bare mnemonic string, then the
// mnemonic with its leading s_/v_ sigil stripped — the three forms a
// semantic-module author may have chosen to export a function under
// (spec §4.4).
func (m *Module) Lookup(d dialect.Dialect, op dialect.Op) (*Semantic, bool) {
	mnemonic := dialect.Mnemonic(d, op)
	if mnemonic == "" {
		return nil, false
	}

	if s, ok := m.byName[wideName(d, mnemonic)]; ok {
		return s, true
	}
	if s, ok := m.byName[mnemonic]; ok {
		return s, true
	}
	if s, ok := m.byName[bareMnemonic(mnemonic)]; ok {
		return s, true
	}
	return nil, false
}

// wideName builds the family-prefixed form of a mnemonic, e.g. "vop3" +
// "_add_f32" for Vop3's "v_add_f32".
func wideName(d dialect.Dialect, mnemonic string) string {
	return d.String() + "_" + bareMnemonic(mnemonic)
}

// bareMnemonic strips a mnemonic's leading scalar/vector sigil (s_, v_),
// leaving the operation name shared across families, e.g. "add_f32".
func bareMnemonic(mnemonic string) string {
	if rest, ok := strings.CutPrefix(mnemonic, "s_"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(mnemonic, "v_"); ok {
		return rest
	}
	return mnemonic
}
