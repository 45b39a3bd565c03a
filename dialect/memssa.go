package dialect

// MemSSA markers tag the memory-def/memory-use nodes the MemorySSA analysis
// attaches to loads and stores (spec §4.7). They are analysis metadata, not
// instructions the lifter or serializer ever emit directly.
const (
	MemSSALiveOnEntry Op = 0
	MemSSADef         Op = 1
	MemSSAUse         Op = 2
	MemSSAPhi         Op = 3
)

var memSSAMnemonics = map[Op]string{
	MemSSALiveOnEntry: "MemorySSA.LiveOnEntry",
	MemSSADef:         "MemorySSA.Def",
	MemSSAUse:         "MemorySSA.Use",
	MemSSAPhi:         "MemorySSA.Phi",
}
