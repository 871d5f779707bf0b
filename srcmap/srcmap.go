// Package srcmap records which source line produced the instruction at each
// address, so the executor can annotate its trace with the original text.
package srcmap

// Mapping is one recorded address-to-source association.
type Mapping struct {
	Line int
	Text string
}

// Map is an address-to-Mapping table built during pass 2 and consulted once
// per fetched instruction during execution.
type Map struct {
	byAddr map[uint32]Mapping
}

// New returns an empty source map.
func New() *Map {
	return &Map{byAddr: make(map[uint32]Mapping)}
}

// Add records that the instruction at addr originated from the given source
// line and text.
func (m *Map) Add(addr uint32, line int, text string) {
	m.byAddr[addr] = Mapping{Line: line, Text: text}
}

// Lookup returns the mapping recorded for addr, if any.
func (m *Map) Lookup(addr uint32) (Mapping, bool) {
	mp, ok := m.byAddr[addr]
	return mp, ok
}
