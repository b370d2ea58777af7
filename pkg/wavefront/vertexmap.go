package wavefront

// vertexRef is one corner of a face: indices into the position, texture
// coordinate and normal pools. A component of 0 means the attribute is
// absent for this vertex. References are resolved (positive, 1-based,
// in range) before being used as map keys.
type vertexRef struct {
	pos      int32
	texCoord int32
	normal   int32
}

// vertexMap deduplicates resolved vertex references within one mesh so
// that shared corners are stored once. Open addressing with linear
// probing; a key whose pos component is 0 marks an empty slot, which is
// safe because resolved position indices are always >= 1. The table is
// doubled and fully rehashed once half full, so slot positions are not
// stable across growth.
type vertexMap struct {
	size int
	keys []vertexRef
	vals []uint32
}

const vertexMapInitialCap = 32

func newVertexMap() *vertexMap {
	return &vertexMap{
		keys: make([]vertexRef, vertexMapInitialCap),
		vals: make([]uint32, vertexMapInitialCap),
	}
}

// hashRef mixes the three indices FNV-1a style.
func hashRef(key vertexRef) uint64 {
	h := uint64(14695981039346656037)
	h ^= uint64(uint32(key.pos))
	h *= 1099511628211
	h ^= uint64(uint32(key.texCoord))
	h *= 1099511628211
	h ^= uint64(uint32(key.normal))
	h *= 1099511628211
	return h
}

// getOrInsert returns the output vertex index stored for key, inserting
// candidate first if the key has not been seen in this mesh.
func (m *vertexMap) getOrInsert(key vertexRef, candidate uint32) uint32 {
	i := hashRef(key) % uint64(len(m.keys))
	for m.keys[i].pos != 0 {
		if m.keys[i] == key {
			return m.vals[i]
		}
		i = (i + 1) % uint64(len(m.keys))
	}

	m.keys[i] = key
	m.vals[i] = candidate
	m.size++

	if m.size >= len(m.keys)/2 {
		m.grow()
	}
	return candidate
}

// grow doubles the table and rehashes every live entry; entries cannot
// simply be copied because hash mod capacity changes.
func (m *vertexMap) grow() {
	oldKeys, oldVals := m.keys, m.vals
	m.keys = make([]vertexRef, 2*len(oldKeys))
	m.vals = make([]uint32, 2*len(oldVals))
	for j, key := range oldKeys {
		if key.pos == 0 {
			continue
		}
		i := hashRef(key) % uint64(len(m.keys))
		for m.keys[i].pos != 0 {
			i = (i + 1) % uint64(len(m.keys))
		}
		m.keys[i] = key
		m.vals[i] = oldVals[j]
	}
}
