package slowcount

// registerBank is the fixed array of registers. It is not thread-safe; the
// Sketch holding it handles locking.
type registerBank struct {
	regs []uint8
}

func newRegisterBank(m int) registerBank {
	return registerBank{regs: make([]uint8, m)}
}

// Len returns the number of registers.
func (b *registerBank) Len() int {
	return len(b.regs)
}

// update folds one item's seed into every register, remixing the seed between
// registers. It reports whether any register changed.
func (b *registerBank) update(seed uint32) bool {
	changed := false
	for i := range b.regs {
		if k := rank(seed); k > b.regs[i] {
			b.regs[i] = k
			changed = true
		}
		seed = Mix(seed)
	}

	return changed
}

// updateKeyed folds one item into every register using the Keyed family.
func (b *registerBank) updateKeyed(base uint64) bool {
	changed := false
	for i := range b.regs {
		if k := rank(keyedValue(base, i)); k > b.regs[i] {
			b.regs[i] = k
			changed = true
		}
	}

	return changed
}

// histogram counts the registers holding each rank value.
func (b *registerBank) histogram() [maxRank + 1]int {
	var histo [maxRank + 1]int
	for _, k := range b.regs {
		histo[k]++
	}

	return histo
}

func (b *registerBank) snapshot() []uint8 {
	out := make([]uint8, len(b.regs))
	copy(out, b.regs)

	return out
}

func (b *registerBank) reset() {
	clear(b.regs)
}
