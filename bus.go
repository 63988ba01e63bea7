// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

// Bus is an in-process message bus for cooperatively scheduled tasks:
// a set of independently addressable bounded FIFO channels carrying
// uint32 messages, plus the scheduler that parks producers on full
// channels and consumers on empty ones.
//
// A Bus is owned by a single goroutine. Tasks spawned with Go/GoExpr,
// the descriptor table and the errno slot are all confined to it; the
// only concurrent entry point is an Inlet, which hands messages over
// through its own SPSC queue.
type Bus struct {
	serial Serial
	chans  []*channel
	errno  error

	runq    taskQueue
	current *task
	live    int
	inlets  []*Inlet
}

// New creates an empty bus: no channels, errno clear.
func New() *Bus {
	return &Bus{serial: nextSerial()}
}

// Serial returns the serial number assigned to this bus.
func (b *Bus) Serial() Serial {
	return b.serial
}

// Errno returns the error stored by the most recent public operation on
// this bus: nil, ErrNoChannel, ErrWouldBlock or ErrNotImplemented.
// The slot is bus-local and single-threaded; it is meaningful
// immediately after a failing call.
func (b *Bus) Errno() error {
	return b.errno
}

// SetErrno overwrites the errno slot.
func (b *Bus) SetErrno(err error) {
	b.errno = err
}

// set stores err (nil on success) into the errno slot and returns it.
// Every public channel operation except Close funnels its result through
// here exactly once.
func (b *Bus) set(err error) error {
	b.errno = err
	return err
}

// Open creates a channel with the given capacity and returns its
// descriptor. A capacity below 1 is promoted to 1. The first hole in the
// descriptor table is reused before the table grows.
func (b *Bus) Open(capacity int) int {
	id := b.install(newChannel(capacity))
	b.set(nil)
	return id
}

// Close destroys the channel at id and releases every task parked on it.
// Closing an unknown descriptor is a no-op; Close never writes the errno
// slot, so it is idempotent in every observable way.
//
// Order matters here: the slot is vacated first, so a released waiter
// that re-resolves the descriptor finds ErrNoChannel; then senders are
// woken, then receivers. Waiters are unlinked by the waker, so both
// queue anchors are empty before any released task runs and the channel
// can be dropped immediately.
func (b *Bus) Close(id int) {
	ch := b.lookup(id)
	if ch == nil {
		return
	}
	b.chans[id] = nil
	b.wakeAll(&ch.sendq)
	b.wakeAll(&ch.recvq)
}

// TrySend appends v to the channel's FIFO and wakes one parked receiver.
// Fails with ErrNoChannel or, when the channel is full, ErrWouldBlock;
// on failure nothing is modified.
func (b *Bus) TrySend(id int, v uint32) error {
	return b.set(b.send1(id, v))
}

// TryRecv pops the oldest message and wakes one parked sender.
// Fails with ErrNoChannel or, when the channel is empty, ErrWouldBlock.
func (b *Bus) TryRecv(id int) (uint32, error) {
	v, err := b.recv1(id)
	return v, b.set(err)
}

// TrySendV appends up to len(data) messages, bounded by the free
// capacity, and wakes one receiver per message moved. Returns the number
// appended; ErrWouldBlock when data is non-empty and nothing fit. An
// empty data slice is valid and moves nothing.
func (b *Bus) TrySendV(id int, data []uint32) (int, error) {
	k, err := b.sendN(id, data)
	return k, b.set(err)
}

// TryRecvV pops up to len(buf) messages into buf and wakes one sender
// per message moved. Returns the number received; ErrWouldBlock when buf
// is non-empty and the channel is empty.
func (b *Bus) TryRecvV(id int, buf []uint32) (int, error) {
	k, err := b.recvN(id, buf)
	return k, b.set(err)
}

// TryBroadcast delivers v to every open channel, atomically with respect
// to capacity: if any open channel is full, no channel receives anything
// and ErrWouldBlock is returned. ErrNoChannel when no channel is open.
func (b *Bus) TryBroadcast(v uint32) error {
	return b.set(b.bcast(v))
}
