package value

// Table is an open-addressed hash table keyed by interned ObjStrings, with
// linear probing, power-of-two capacity, and growth by doubling whenever
// its load factor would exceed 75%.
//
// Because keys are always interned strings, table lookups compare keys by
// pointer rather than by content, and the
// FindString method below is the one exception: it is how interning itself
// finds out whether a matching string already exists, by probing with the
// raw bytes and hash before an ObjString for them exists at all.
type Table struct {
	count   int
	entries []entry
}

type entry struct {
	key   *ObjString
	value Value
}

const tableMaxLoad = 0.75

// Get looks up key and reports whether it was present.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return Nil, false
	}
	e := t.find(key)
	if e.key == nil {
		return Nil, false
	}
	return e.value, true
}

// Set stores value under key, growing the table first if necessary. It
// reports whether this inserted a brand new key (as opposed to overwriting
// an existing one).
func (t *Table) Set(key *ObjString, val Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		t.adjustCapacity(growCapacity(len(t.entries)))
	}
	e := t.findSlot(key)
	isNew := e.key == nil
	if isNew && e.value.IsNil() {
		t.count++
	}
	e.key = key
	e.value = val
	return isNew
}

// Delete removes key, leaving a tombstone behind so later probes that
// passed through this slot still find what comes after it.
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.find(key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = True // tombstone sentinel, distinct from an empty slot's Nil
	return true
}

// CopyTo copies every entry of t into dst (a shallow merge), overwriting
// any entry of dst under the same key.
func (t *Table) CopyTo(dst *Table) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil {
			dst.Set(e.key, e.value)
		}
	}
}

// Walk calls fn for every live entry in the table, in arbitrary order. Used
// by the garbage collector to mark every reachable key and value.
func (t *Table) Walk(fn func(key *ObjString, val Value)) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil {
			fn(e.key, e.value)
		}
	}
}

// FindString probes the table for a string with the given raw content and
// precomputed hash, without needing an ObjString to compare against. The
// string interner uses this to decide whether chars already has an
// ObjString, before allocating a new one.
func (t *Table) FindString(chars string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	idx := hash & mask
	for {
		e := &t.entries[idx]
		if e.key == nil {
			if e.value.IsNil() {
				return nil
			}
		} else if e.key.Hash == hash && e.key.Chars == chars {
			return e.key
		}
		idx = (idx + 1) & mask
	}
}

// RemoveWhite deletes every entry in t whose key is not marked, called
// during the GC sweep phase so the string interner does not keep dead
// strings alive forever.
func RemoveWhite(t *Table) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil && !e.key.marked() {
			e.key = nil
			e.value = True
		}
	}
}

func (t *Table) find(key *ObjString) *entry {
	mask := uint32(len(t.entries) - 1)
	idx := key.Hash & mask
	var tombstone *entry
	for {
		e := &t.entries[idx]
		switch {
		case e.key == nil:
			if e.value.IsNil() {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		case e.key == key:
			return e
		}
		idx = (idx + 1) & mask
	}
}

// findSlot is like find but always used on the insert path; it is kept
// separate from find only for clarity at call sites, the logic is
// identical.
func (t *Table) findSlot(key *ObjString) *entry {
	return t.find(key)
}

func (t *Table) adjustCapacity(capacity int) {
	grown := make([]entry, capacity)
	old := t.entries
	t.entries = grown
	t.count = 0
	for i := range old {
		e := &old[i]
		if e.key == nil {
			continue
		}
		dst := t.find(e.key)
		dst.key = e.key
		dst.value = e.value
		t.count++
	}
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
