package sfv

// orderedMap is an insertion-ordered map from Key to V. Setting an existing
// key replaces its value in place, so order is that of first insertion.
type orderedMap[V any] struct {
	entries []orderedEntry[V]
	index   map[Key]int // key -> position in entries
}

type orderedEntry[V any] struct {
	key   Key
	value V
}

// set adds or replaces the value for key.
func (m *orderedMap[V]) set(key Key, value V) {
	if idx, ok := m.index[key]; ok {
		m.entries[idx].value = value
		return
	}
	if m.index == nil {
		m.index = map[Key]int{}
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, orderedEntry[V]{key: key, value: value})
}

func (m *orderedMap[V]) get(key Key) (V, bool) {
	if idx, ok := m.index[key]; ok {
		return m.entries[idx].value, true
	}
	var zero V
	return zero, false
}

// del removes key and reports whether it was present.
func (m *orderedMap[V]) del(key Key) bool {
	idx, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	delete(m.index, key)
	// Rebuild index
	for i := idx; i < len(m.entries); i++ {
		m.index[m.entries[i].key] = i
	}
	return true
}

func (m *orderedMap[V]) len() int { return len(m.entries) }

func (m *orderedMap[V]) keys() []Key {
	keys := make([]Key, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// clone copies the map, copying each value with cp.
func (m *orderedMap[V]) clone(cp func(V) V) orderedMap[V] {
	if len(m.entries) == 0 {
		return orderedMap[V]{}
	}
	out := orderedMap[V]{
		entries: make([]orderedEntry[V], len(m.entries)),
		index:   make(map[Key]int, len(m.entries)),
	}
	for i, e := range m.entries {
		out.entries[i] = orderedEntry[V]{key: e.key, value: cp(e.value)}
		out.index[e.key] = i
	}
	return out
}

// equal compares entries pairwise in order.
func (m *orderedMap[V]) equal(other *orderedMap[V], eq func(a, b V) bool) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for i, e := range m.entries {
		o := other.entries[i]
		if e.key != o.key || !eq(e.value, o.value) {
			return false
		}
	}
	return true
}

// mergeFrom sets every entry of other into m.
func (m *orderedMap[V]) mergeFrom(other *orderedMap[V], cp func(V) V) {
	for _, e := range other.entries {
		m.set(e.key, cp(e.value))
	}
}
