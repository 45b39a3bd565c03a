package ir

import "github.com/RPCSX/rpcsx-sub002/regfile"

// Context is the single owning container for one compilation: it interns
// every type and constant, names instructions for debug output, caches
// analysis results keyed by root instruction, and holds the register-file
// variables and the loaded semantic module.
//
// All nodes created through a Context are owned by it for their lifetime;
// passing a node to a different Context's methods is a programmer error.
type Context struct {
	types  *typeInterner
	consts *constInterner

	names map[*Instruction]string

	// analyses caches analysis results keyed by the root instruction they
	// were computed over. InvalidateAll clears it; individual analyses
	// package their own cache entry type behind an interface{} value here.
	analyses map[*Instruction]map[string]any

	registers     map[regfile.Register]*Instruction
	registerOrder []*Instruction

	// Semantic holds the loaded semantic module, opaque to ir to avoid an
	// import cycle (semantic depends on ir, not the reverse). The lifter and
	// partial evaluator type-assert it to *semantic.Module.
	Semantic any
}

// NewContext returns an empty Context ready for use.
func NewContext() *Context {
	return &Context{
		types:     newTypeInterner(),
		consts:    newConstInterner(),
		names:     make(map[*Instruction]string),
		analyses:  make(map[*Instruction]map[string]any),
		registers: make(map[regfile.Register]*Instruction),
	}
}

// TypesInOrder returns every type interned so far, in first-interned order.
// Used by spirvcodec to emit OpType* declarations before their first use.
func (c *Context) TypesInOrder() []*Type {
	return c.types.order
}

// ConstantsInOrder returns every constant interned so far, in
// first-interned order. Used by spirvcodec to emit OpConstant*
// declarations before their first use.
func (c *Context) ConstantsInOrder() []*Instruction {
	return c.consts.order
}

// NewRegion returns a new, empty region of the given kind, owned by c.
func (c *Context) NewRegion(kind RegionKind) *Region {
	return &Region{Kind: kind}
}

// SetName records a debug name for an instruction. Names are auxiliary and
// never participate in interning identity.
func (c *Context) SetName(i *Instruction, name string) {
	c.names[i] = name
}

// Name returns the debug name previously set for i, or "" if none.
func (c *Context) Name(i *Instruction) string {
	return c.names[i]
}

// Register returns the instruction realizing the given logical register,
// creating it lazily via create on first access.
func (c *Context) Register(r regfile.Register, create func() *Instruction) *Instruction {
	if v, ok := c.registers[r]; ok {
		return v
	}
	v := create()
	c.registers[r] = v
	c.registerOrder = append(c.registerOrder, v)
	return v
}

// RegistersInOrder returns every register-file variable created so far, in
// first-creation order. Used by recompiler to place them all in the
// module's Globals region and the entry point's interface list.
func (c *Context) RegistersInOrder() []*Instruction {
	return c.registerOrder
}

// RegisterIfPresent returns the instruction already realizing r, without
// creating one.
func (c *Context) RegisterIfPresent(r regfile.Register) (*Instruction, bool) {
	v, ok := c.registers[r]
	return v, ok
}

// CacheAnalysis stores an analysis result for root under name.
func (c *Context) CacheAnalysis(root *Instruction, name string, value any) {
	m, ok := c.analyses[root]
	if !ok {
		m = make(map[string]any)
		c.analyses[root] = m
	}
	m[name] = value
}

// CachedAnalysis retrieves a previously stored analysis result for root.
func (c *Context) CachedAnalysis(root *Instruction, name string) (any, bool) {
	m, ok := c.analyses[root]
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

// InvalidateAll clears every cached analysis result. Must be called after
// any mutation to a region before its analyses are consulted again.
func (c *Context) InvalidateAll() {
	c.analyses = make(map[*Instruction]map[string]any)
}
