package value

// ObjString is an immutable byte sequence. Its length is the length of
// Chars; its Hash is computed once by FNV-1a and cached, since it is
// consulted on every table lookup.
//
// IsDynamic records whether the character storage is owned or a reference
// to externally-managed memory. Nothing reads it: Go strings always own
// (or immutably share) their backing bytes regardless of how they were
// constructed, so there is no owned-buffer case to distinguish. See
// DESIGN.md.
type ObjString struct {
	Header
	Chars     string
	Hash      uint32
	IsDynamic bool
}

func (s *ObjString) String() string { return s.Chars }

// Len returns the number of bytes in the string.
func (s *ObjString) Len() int { return len(s.Chars) }

// NewString constructs an ObjString without interning or GC accounting.
// Call sites outside this package should go through the VM's InternString,
// which is the only thing that may create an ObjString that participates
// in the language's string-identity invariant.
func NewString(chars string) *ObjString {
	return &ObjString{
		Header:    Header{typ: TypeString},
		Chars:     chars,
		Hash:      FNV1a(chars),
		IsDynamic: true,
	}
}

// FNV1a computes the 32-bit FNV-1a hash of s, used both to cache
// ObjString.Hash and as the hash table's bucket function.
func FNV1a(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
