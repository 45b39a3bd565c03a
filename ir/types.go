package ir

import (
	"strconv"

	"github.com/RPCSX/rpcsx-sub002/dialect"
)

// TypeKind distinguishes the shape of a Type node.
type TypeKind uint8

const (
	TypeVoidKind TypeKind = iota
	TypeBoolKind
	TypeIntKind
	TypeFloatKind
	TypeVectorKind
	TypeArrayKind
	TypePointerKind
	TypeFunctionKind
)

// Type is an interned type node. Two structurally equal types are the same
// *Type (pointer equality) once interned through a Context — callers never
// construct a Type directly, only through Context.Type*() helpers.
type Type struct {
	Kind TypeKind

	// TypeIntKind / TypeFloatKind
	Width  uint32
	Signed bool // TypeIntKind only

	// TypeVectorKind / TypeArrayKind / TypePointerKind
	Elem *Type

	// TypeVectorKind
	Len uint32

	// TypeArrayKind: nil Length means a SPIR-V runtime array (unbounded).
	// LengthConst holds the interned constant instruction spirvcodec must
	// reference as OpTypeArray's length operand (SPIR-V array lengths are a
	// constant id, never a bare literal).
	Length      *uint32
	LengthConst *Instruction

	// TypePointerKind
	Storage dialect.StorageClass

	// TypeFunctionKind
	Result *Type
	Params []*Type
}

// typeInterner deduplicates Type nodes by structural key, mirroring the
// teacher's TypeRegistry.GetOrCreate/normalizeType split: scalar shapes build
// their key into a reusable buffer, composite shapes recurse.
type typeInterner struct {
	byKey  map[string]*Type
	order  []*Type
	keyBuf []byte
}

func newTypeInterner() *typeInterner {
	return &typeInterner{byKey: make(map[string]*Type, 16), keyBuf: make([]byte, 0, 64)}
}

func (in *typeInterner) intern(key string, build func() *Type) *Type {
	if t, ok := in.byKey[key]; ok {
		return t
	}
	t := build()
	in.byKey[key] = t
	in.order = append(in.order, t)
	return t
}

func (in *typeInterner) keyScalar(prefix string, width uint32, signed bool) string {
	b := in.keyBuf[:0]
	b = append(b, prefix...)
	b = append(b, ':')
	b = strconv.AppendUint(b, uint64(width), 10)
	if prefix == "int" {
		b = append(b, ':')
		b = strconv.AppendBool(b, signed)
	}
	in.keyBuf = b
	return string(b)
}

// TypeBool returns the interned boolean type.
func (c *Context) TypeBool() *Type {
	return c.types.intern("bool", func() *Type { return &Type{Kind: TypeBoolKind} })
}

// TypeInt returns the interned integer type of the given width and
// signedness.
func (c *Context) TypeInt(width uint32, signed bool) *Type {
	key := c.types.keyScalar("int", width, signed)
	return c.types.intern(key, func() *Type {
		return &Type{Kind: TypeIntKind, Width: width, Signed: signed}
	})
}

// TypeFloat returns the interned floating-point type of the given width.
func (c *Context) TypeFloat(width uint32) *Type {
	key := c.types.keyScalar("float", width, false)
	return c.types.intern(key, func() *Type {
		return &Type{Kind: TypeFloatKind, Width: width}
	})
}

// TypeVector returns the interned vector type of elem repeated n times.
func (c *Context) TypeVector(elem *Type, n uint32) *Type {
	key := "vec:" + strconv.FormatUint(uint64(n), 10) + ":" + elem.key()
	return c.types.intern(key, func() *Type {
		return &Type{Kind: TypeVectorKind, Elem: elem, Len: n}
	})
}

// TypeArray returns the interned array type of elem. A nil length produces a
// SPIR-V runtime array.
func (c *Context) TypeArray(elem *Type, length *uint32) *Type {
	sizeKey := "runtime"
	if length != nil {
		sizeKey = strconv.FormatUint(uint64(*length), 10)
	}
	key := "array:" + elem.key() + ":" + sizeKey
	return c.types.intern(key, func() *Type {
		var lcopy *uint32
		var lconst *Instruction
		if length != nil {
			v := *length
			lcopy = &v
			lconst = c.ConstantInt(32, false, uint64(v))
		}
		return &Type{Kind: TypeArrayKind, Elem: elem, Length: lcopy, LengthConst: lconst}
	})
}

// TypeVoid returns the interned void pseudo-type, used as OpTypeFunction's
// return-type operand when the function is void-returning (a nil Result on
// a TypeFunctionKind Type means the same thing for structural keying, but
// emission needs an actual type id to reference).
func (c *Context) TypeVoid() *Type {
	return c.types.intern("void", func() *Type { return &Type{Kind: TypeVoidKind} })
}

// TypePointer returns the interned pointer-to-pointee type in the given
// storage class.
func (c *Context) TypePointer(storage dialect.StorageClass, pointee *Type) *Type {
	key := "ptr:" + strconv.FormatUint(uint64(storage), 10) + ":" + pointee.key()
	return c.types.intern(key, func() *Type {
		return &Type{Kind: TypePointerKind, Storage: storage, Elem: pointee}
	})
}

// TypeFunction returns the interned function type (result, params...). A nil
// result denotes a void-returning function.
func (c *Context) TypeFunction(result *Type, params []*Type) *Type {
	key := "fn:" + result.key()
	for _, p := range params {
		key += ":" + p.key()
	}
	return c.types.intern(key, func() *Type {
		cp := make([]*Type, len(params))
		copy(cp, params)
		return &Type{Kind: TypeFunctionKind, Result: result, Params: cp}
	})
}

// InternType re-interns t's structure into c, recursively, returning the
// equivalent type owned by c. For a type already interned in c this is a
// cheap no-op lookup; for a type built in a different Context (a loaded
// semantic module's own types) it rebuilds the structure through c's normal
// Type*() constructors, so the result participates in c's interning and
// TypesInOrder() the same as any type built directly against c. Safe to
// call with a nil t (the void result of a function type).
func (c *Context) InternType(t *Type) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TypeVoidKind:
		return c.TypeVoid()
	case TypeBoolKind:
		return c.TypeBool()
	case TypeIntKind:
		return c.TypeInt(t.Width, t.Signed)
	case TypeFloatKind:
		return c.TypeFloat(t.Width)
	case TypeVectorKind:
		return c.TypeVector(c.InternType(t.Elem), t.Len)
	case TypeArrayKind:
		return c.TypeArray(c.InternType(t.Elem), t.Length)
	case TypePointerKind:
		return c.TypePointer(t.Storage, c.InternType(t.Elem))
	case TypeFunctionKind:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.InternType(p)
		}
		return c.TypeFunction(c.InternType(t.Result), params)
	default:
		return t
	}
}

// key returns a stable identity string for t, used to key composite types
// that embed t. Safe to call on a nil *Type (the void result of a function
// type).
func (t *Type) key() string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case TypeVoidKind:
		return "void"
	case TypeBoolKind:
		return "bool"
	case TypeIntKind:
		return "int:" + strconv.FormatUint(uint64(t.Width), 10) + ":" + strconv.FormatBool(t.Signed)
	case TypeFloatKind:
		return "float:" + strconv.FormatUint(uint64(t.Width), 10)
	case TypeVectorKind:
		return "vec:" + strconv.FormatUint(uint64(t.Len), 10) + ":" + t.Elem.key()
	case TypeArrayKind:
		if t.Length == nil {
			return "array:" + t.Elem.key() + ":runtime"
		}
		return "array:" + t.Elem.key() + ":" + strconv.FormatUint(uint64(*t.Length), 10)
	case TypePointerKind:
		return "ptr:" + strconv.FormatUint(uint64(t.Storage), 10) + ":" + t.Elem.key()
	case TypeFunctionKind:
		k := "fn:" + t.Result.key()
		for _, p := range t.Params {
			k += ":" + p.key()
		}
		return k
	default:
		return "unknown"
	}
}
