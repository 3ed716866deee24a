package ir

// Map is an insertion-ordered mapping from Any to Any. Key equality is
// Any equality: bitwise for PODs, content for strings/bytes, identity for
// object references.
type Map struct {
	keys  []Any
	vals  []Any
	index map[Any]int
}

func NewMap() *Map {
	return &Map{index: map[Any]int{}}
}

func (m *Map) TypeKey() string { return MapTypeKey }

func (m *Map) Len() int { return len(m.keys) }

// Set inserts or replaces the value under k.
func (m *Map) Set(k, v Any) {
	if i, ok := m.index[k]; ok {
		m.vals[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

func (m *Map) Get(k Any) (Any, bool) {
	i, ok := m.index[k]
	if !ok {
		return None(), false
	}
	return m.vals[i], true
}

// Each visits entries in insertion order until f returns false.
func (m *Map) Each(f func(k, v Any) bool) {
	for i := range m.keys {
		if !f(m.keys[i], m.vals[i]) {
			return
		}
	}
}

// AllStringKeys reports whether every key is a string.
func (m *Map) AllStringKeys() bool {
	for _, k := range m.keys {
		if k.TypeIndex() != TypeIndexStr {
			return false
		}
	}
	return true
}
