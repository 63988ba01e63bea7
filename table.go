// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

// Descriptor table: a dense array of channel slots indexed by descriptor.
// Slots vacated by close become holes; open reuses the first hole before
// growing. Growth doubles from a minimum of 2 and the table is never
// shrunk, so descriptors stay stable for the lifetime of their channel
// and become reusable after close.

// lookup returns the channel at id, or nil for out-of-range ids and
// holes. Callers must re-lookup after every resumption: the descriptor
// may have been closed (and even reopened) while they were parked.
func (b *Bus) lookup(id int) *channel {
	if id < 0 || id >= len(b.chans) {
		return nil
	}
	return b.chans[id]
}

// install places ch in the first hole, growing the table when none is
// left, and returns the descriptor.
func (b *Bus) install(ch *channel) int {
	for id, c := range b.chans {
		if c == nil {
			b.chans[id] = ch
			return id
		}
	}
	old := len(b.chans)
	grown := old * 2
	if grown == 0 {
		grown = 2
	}
	next := make([]*channel, grown)
	copy(next, b.chans)
	b.chans = next
	// No holes existed, so the first free slot is the former end.
	b.chans[old] = ch
	return old
}
