package ir

import (
	"strings"
	"testing"

	"github.com/RPCSX/rpcsx-sub002/dialect"
)

func TestTypeInterningIdentity(t *testing.T) {
	c := NewContext()

	if c.TypeInt(32, false) != c.TypeInt(32, false) {
		t.Fatal("TypeInt(32, false) should return the same *Type both times")
	}
	if c.TypeInt(32, false) == c.TypeInt(32, true) {
		t.Fatal("TypeInt(32, false) and TypeInt(32, true) must not be interned together")
	}
	if c.TypeBool() != c.TypeBool() {
		t.Fatal("TypeBool() should return the same *Type both times")
	}

	f32 := c.TypeFloat(32)
	v1 := c.TypeVector(f32, 4)
	v2 := c.TypeVector(c.TypeFloat(32), 4)
	if v1 != v2 {
		t.Fatal("TypeVector(float32, 4) should intern to the same *Type")
	}

	var n uint32 = 8
	a1 := c.TypeArray(c.TypeInt(32, true), &n)
	a2 := c.TypeArray(c.TypeInt(32, true), &n)
	if a1 != a2 {
		t.Fatal("TypeArray with equal length should intern to the same *Type")
	}
	runtimeArr := c.TypeArray(c.TypeInt(32, true), nil)
	if runtimeArr == a1 {
		t.Fatal("runtime array and fixed-length array must not collide")
	}

	p1 := c.TypePointer(dialect.StorageClassPrivate, c.TypeInt(32, false))
	p2 := c.TypePointer(dialect.StorageClassPrivate, c.TypeInt(32, false))
	if p1 != p2 {
		t.Fatal("TypePointer with equal storage/pointee should intern to the same *Type")
	}
	p3 := c.TypePointer(dialect.StorageClassFunction, c.TypeInt(32, false))
	if p1 == p3 {
		t.Fatal("different storage classes must not collide")
	}

	fn1 := c.TypeFunction(nil, []*Type{c.TypeInt(32, false)})
	fn2 := c.TypeFunction(nil, []*Type{c.TypeInt(32, false)})
	if fn1 != fn2 {
		t.Fatal("TypeFunction with equal signature should intern to the same *Type")
	}
}

func TestConstantInterningIdentity(t *testing.T) {
	c := NewContext()
	if c.ConstantInt(32, false, 42) != c.ConstantInt(32, false, 42) {
		t.Fatal("ConstantInt(32,false,42) should intern to the same instruction")
	}
	if c.ConstantInt(32, false, 42) == c.ConstantInt(32, true, 42) {
		t.Fatal("signed and unsigned 42 must not collide")
	}
	if c.ConstantBool(true) == c.ConstantBool(false) {
		t.Fatal("ConstantBool(true) and ConstantBool(false) must differ")
	}
	if c.ConstantFloat32(1.5) != c.ConstantFloat32(1.5) {
		t.Fatal("ConstantFloat32(1.5) should intern to the same instruction")
	}
}

func buildTestRegion(c *Context) (*Region, *Instruction, *Instruction) {
	region := c.NewRegion(RegionBlock)
	b := NewBuilderAtEnd(c, region)

	c42 := c.ConstantInt(32, false, 42)
	mov := b.New(dialect.Sop1, dialect.Sop1Mov, c.TypeInt(32, false), []Operand{OperandValue(c42)}, UnknownLocation)
	b.Append(mov)
	endpgm := b.New(dialect.Sopp, dialect.SoppEndPgm, nil, nil, UnknownLocation)
	b.Append(endpgm)
	return region, mov, endpgm
}

func TestUseListConsistency(t *testing.T) {
	c := NewContext()
	region, mov, _ := buildTestRegion(c)
	_ = region

	c42 := mov.Operands[0].Value
	if len(c42.Uses) != 1 {
		t.Fatalf("expected exactly one use of the constant, got %d", len(c42.Uses))
	}
	u := c42.Uses[0]
	if u.User != mov || u.Index != 0 {
		t.Fatalf("use should point back at (mov, 0), got (%v, %d)", u.User, u.Index)
	}
}

func TestNoDanglingUsesAfterRemove(t *testing.T) {
	c := NewContext()
	region := c.NewRegion(RegionBlock)
	b := NewBuilderAtEnd(c, region)

	v := b.New(dialect.Sop1, dialect.Sop1Mov, c.TypeInt(32, false), []Operand{OperandI32(1)}, UnknownLocation)
	b.Append(v)
	w := b.New(dialect.Sop1, dialect.Sop1Mov, c.TypeInt(32, false), []Operand{OperandI32(2)}, UnknownLocation)
	b.Append(w)

	user := b.New(dialect.Sop2, dialect.Sop2Add, c.TypeInt(32, false), []Operand{OperandValue(v), OperandValue(v)}, UnknownLocation)
	b.Append(user)

	if len(v.Uses) != 2 {
		t.Fatalf("expected 2 uses of v before replace, got %d", len(v.Uses))
	}

	ReplaceAllUsesWith(v, w)
	if len(v.Uses) != 0 {
		t.Fatalf("v should have no uses after ReplaceAllUsesWith, got %d", len(v.Uses))
	}
	if len(w.Uses) != 2 {
		t.Fatalf("w should have gained 2 uses, got %d", len(w.Uses))
	}

	Remove(v)
	if v.Region() != nil {
		t.Fatal("removed instruction must report a nil region")
	}
	if region.Len() != 2 {
		t.Fatalf("region should have 2 instructions left, got %d", region.Len())
	}
}

func TestBuilderOrderingAppendPrepend(t *testing.T) {
	c := NewContext()
	region := c.NewRegion(RegionBlock)
	b := NewBuilderAtEnd(c, region)

	first := b.New(dialect.Sopp, dialect.SoppNop, nil, nil, UnknownLocation)
	b.Append(first)
	last := b.New(dialect.Sopp, dialect.SoppEndPgm, nil, nil, UnknownLocation)
	b.Append(last)
	head := b.New(dialect.Sopp, dialect.SoppNop, nil, nil, UnknownLocation)
	b.Prepend(head)

	got := region.Instructions()
	if len(got) != 3 || got[0] != head || got[1] != first || got[2] != last {
		t.Fatalf("unexpected instruction order: %v", got)
	}
	if region.First() != head || region.Last() != last {
		t.Fatal("region First/Last mismatch after Prepend/Append")
	}
}

func TestInsertBeforeAfter(t *testing.T) {
	c := NewContext()
	region := c.NewRegion(RegionBlock)
	b := NewBuilderAtEnd(c, region)

	a := b.New(dialect.Sopp, dialect.SoppNop, nil, nil, UnknownLocation)
	b.Append(a)
	c3 := b.New(dialect.Sopp, dialect.SoppEndPgm, nil, nil, UnknownLocation)
	b.Append(c3)

	mid := b.New(dialect.Sopp, dialect.SoppNop, nil, nil, UnknownLocation)
	InsertBefore(c3, mid)

	got := region.Instructions()
	if len(got) != 3 || got[1] != mid {
		t.Fatalf("InsertBefore placed instruction incorrectly: %v", got)
	}

	tail := b.New(dialect.Sopp, dialect.SoppNop, nil, nil, UnknownLocation)
	InsertAfter(c3, tail)
	got = region.Instructions()
	if len(got) != 4 || got[3] != tail || region.Last() != tail {
		t.Fatalf("InsertAfter placed instruction incorrectly: %v", got)
	}
}

func TestCloneMapPinAndClone(t *testing.T) {
	c := NewContext()
	region, mov, endpgm := buildTestRegion(c)
	_ = region

	c42 := mov.Operands[0].Value

	cm := NewCloneMap(c)
	cm.Pin(c42) // constants are pinned, never duplicated

	clonedMov := cm.Clone(mov)
	if clonedMov == mov {
		t.Fatal("clone of mov should be a distinct instruction")
	}
	if clonedMov.Operands[0].Value != c42 {
		t.Fatal("pinned constant should be reused by the clone, not duplicated")
	}
	if len(c42.Uses) != 2 {
		t.Fatalf("pinned constant should now have 2 uses (original + clone), got %d", len(c42.Uses))
	}

	clonedEndpgm := cm.Clone(endpgm)
	if clonedEndpgm == endpgm {
		t.Fatal("clone of endpgm should be a distinct instruction")
	}

	if got, ok := cm.Get(mov); !ok || got != clonedMov {
		t.Fatal("CloneMap.Get should return the remembered clone for mov")
	}
}

func TestDumpRendersInstructions(t *testing.T) {
	c := NewContext()
	region, _, _ := buildTestRegion(c)

	var sb strings.Builder
	if err := c.Dump(&sb, region); err != nil {
		t.Fatalf("Dump returned error: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "sop1") || !strings.Contains(out, "sopp") {
		t.Fatalf("dump output missing expected dialect names: %q", out)
	}
}
