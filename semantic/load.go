package semantic

import (
	"strings"

	"github.com/RPCSX/rpcsx-sub002/dialect"
	"github.com/RPCSX/rpcsx-sub002/ir"
	"github.com/RPCSX/rpcsx-sub002/regfile"
	"github.com/RPCSX/rpcsx-sub002/spirvcodec"
)

// Load deserializes data as a SPIR-V module and indexes its exported
// functions as Semantics, keyed by their OpName with any mangled signature
// suffix removed. A function without an OpName is skipped; every named
// function is indexed, whether or not its name is a GCN mnemonic.
func Load(data []byte) (*Module, error) {
	_, m, err := spirvcodec.Deserialize(data)
	if err != nil {
		return nil, err
	}

	names := indexNames(m)
	registerByName := registerNameTable()

	funcs := collectFunctions(m)
	mod := &Module{byName: make(map[string]*Semantic, len(funcs))}

	for _, fn := range funcs {
		rawName, ok := names[fn.Func]
		if !ok {
			continue
		}
		mnemonic := stripSignature(rawName)

		for _, pt := range fn.FuncType.Params {
			access := dialect.AccessRead
			if pt.Kind == ir.TypePointerKind {
				access = dialect.AccessReadWrite
			}
			fn.Params = append(fn.Params, Param{Type: pt, Access: access})
		}

		for _, v := range m.Globals.Instructions() {
			if v.Op != dialect.OpVariable {
				continue
			}
			varName, ok := names[v]
			if !ok {
				continue
			}
			reg, ok := registerByName[varName]
			if !ok {
				continue
			}
			if err := checkRegisterWidth(reg, v.Type); err != nil {
				return nil, &BadSemanticModuleError{Mnemonic: mnemonic, Reason: err.Error()}
			}
			access := dialect.AccessRead
			if storageWritable(v) {
				access = dialect.AccessReadWrite
			}
			fn.Registers = append(fn.Registers, RegisterAccess{Register: reg, Access: access, Variable: v})
		}

		fn.Mnemonic = mnemonic
		mod.byName[mnemonic] = fn
	}

	return mod, nil
}

// stripSignature removes a trailing parenthesized mangled signature a
// semantic-module compiler may have appended to the exported name, e.g.
// "v_add_f32(ff)f" -> "v_add_f32".
func stripSignature(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		return name[:i]
	}
	return name
}

// indexNames maps every OpName-tagged instruction to its debug name.
func indexNames(m *spirvcodec.Module) map[*ir.Instruction]string {
	out := make(map[*ir.Instruction]string, m.Debugs.Len())
	for i := m.Debugs.First(); i != nil; i = i.Next() {
		if i.Op != dialect.OpName {
			continue
		}
		target := i.Operands[0].Value
		name := i.Operands[1].Str
		out[target] = name
	}
	return out
}

// collectFunctions walks the Functions region, recording each OpFunction
// and its function type; OpFunctionParameter instructions are not read.
func collectFunctions(m *spirvcodec.Module) []*Semantic {
	var out []*Semantic
	var current *Semantic
	for i := m.Functions.First(); i != nil; i = i.Next() {
		switch i.Op {
		case dialect.OpFunction:
			current = &Semantic{Func: i, FuncType: i.Operands[1].Typ}
			out = append(out, current)
		case dialect.OpFunctionEnd:
			current = nil
		}
	}
	return out
}

// registerNameTable builds the full reverse map from a register's debug
// name (spec §3, regfile.Name's format) to its Register, so semantic-module
// globals can be matched by name alone.
func registerNameTable() map[string]regfile.Register {
	out := make(map[string]regfile.Register, 256+512+16)
	for i := uint32(0); i < 256; i++ {
		r := regfile.Sgpr(i)
		out[regfile.Name(r)] = r
	}
	for i := uint32(0); i < 512; i++ {
		r := regfile.Vgpr(i)
		out[regfile.Name(r)] = r
	}
	for _, r := range []regfile.Register{
		regfile.RegM0, regfile.RegScc, regfile.RegVccLo, regfile.RegVccHi,
		regfile.RegExecLo, regfile.RegExecHi, regfile.RegVccZ, regfile.RegExecZ,
		regfile.RegLdsDirect, regfile.RegSgprCount, regfile.RegVgprCount,
		regfile.RegThreadID, regfile.RegMemoryTable, regfile.RegGds,
	} {
		out[regfile.Name(r)] = r
	}
	return out
}

// checkRegisterWidth reports whether ptrType, a semantic module's realized
// type for a register-named OpVariable, agrees with the register's layout
// (spec §4.4's bit-width mismatch check). ptrType must be a pointer; its
// pointee is what is actually checked.
func checkRegisterWidth(r regfile.Register, ptrType *ir.Type) error {
	if ptrType == nil || ptrType.Kind != ir.TypePointerKind {
		return errNotAPointer
	}
	elem := ptrType.Elem
	switch regfile.LayoutOf(r) {
	case regfile.KindScalarU32:
		if elem.Kind != ir.TypeIntKind || elem.Width != 32 {
			return errWidthMismatch
		}
	case regfile.KindScalarBool:
		if elem.Kind != ir.TypeBoolKind {
			return errWidthMismatch
		}
	case regfile.KindPairU32:
		if elem.Kind != ir.TypeVectorKind || elem.Len != 2 || elem.Elem.Kind != ir.TypeIntKind || elem.Elem.Width != 32 {
			return errWidthMismatch
		}
	case regfile.KindVectorU32Lanes:
		if (elem.Kind != ir.TypeArrayKind && elem.Kind != ir.TypeVectorKind) || elem.Elem.Kind != ir.TypeIntKind || elem.Elem.Width != 32 {
			return errWidthMismatch
		}
	case regfile.KindOpaquePointer:
		if elem.Kind != ir.TypePointerKind {
			return errWidthMismatch
		}
	}
	return nil
}

// storageWritable reports whether v's storage class permits writes. The
// lifter only ever declares Private-class registers, but a hand-authored
// semantic module could in principle target UniformConstant; treat anything
// but UniformConstant as writable.
func storageWritable(v *ir.Instruction) bool {
	return dialect.StorageClass(v.Operands[0].I32) != dialect.StorageClassUniformConstant
}
