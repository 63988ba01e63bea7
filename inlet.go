// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"errors"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// inletCapacity is the bounded capacity of an inlet's transfer queue.
// 4 keeps the ring within a single cache line while amortizing the
// producer-side cached-index refresh cost.
const inletCapacity = 4

// Inlet feeds one channel from outside the bus goroutine. It is the only
// concurrent entry point to a bus: exactly one producer goroutine hands
// messages over a bounded lock-free SPSC queue, and the scheduler drains
// it whenever the run queue is empty. Messages drained from an inlet
// enter the channel through the ordinary send path, waking receivers and
// respecting capacity; a message that does not fit yet stays pending in
// the inlet without blocking the producer's slot accounting.
type Inlet struct {
	q      lfq.SPSC[uint32]
	closed atomix.Uint32

	// Owned by the bus goroutine.
	channel    int
	pending    uint32
	hasPending bool
}

// OpenInlet registers an inlet feeding the channel at id. The returned
// handle may be passed to exactly one producer goroutine. Must be called
// on the bus goroutine.
func (b *Bus) OpenInlet(id int) *Inlet {
	in := &Inlet{channel: id}
	in.q.Init(inletCapacity)
	b.inlets = append(b.inlets, in)
	return in
}

// Put enqueues v for delivery. Non-blocking: returns ErrWouldBlock when
// the transfer queue is full and ErrNoChannel after Close. Safe to call
// from the producer goroutine only.
func (in *Inlet) Put(v uint32) error {
	if in.closed.Load() != 0 {
		return ErrNoChannel
	}
	return in.q.Enqueue(&v)
}

// PutWait enqueues v, waiting out backpressure with adaptive backoff.
func (in *Inlet) PutWait(v uint32) error {
	var bo iox.Backoff
	for {
		err := in.Put(v)
		if !errors.Is(err, ErrWouldBlock) {
			return err
		}
		bo.Wait()
	}
}

// Close retires the inlet. Messages already handed over are still
// delivered; once drained, the scheduler drops the inlet and stops
// counting it as a wakeup source.
func (in *Inlet) Close() {
	in.closed.Store(1)
}

// drain moves as many handed-over messages as fit into the target
// channel. Reports whether any message was delivered. A vanished target
// retires the inlet; its remaining messages have nowhere to go.
func (in *Inlet) drain(b *Bus) bool {
	progress := false
	for {
		if !in.hasPending {
			v, err := in.q.Dequeue()
			if err != nil {
				return progress
			}
			in.pending = v
			in.hasPending = true
		}
		if err := b.send1(in.channel, in.pending); err != nil {
			if errors.Is(err, ErrNoChannel) {
				in.hasPending = false
				in.closed.Store(1)
			}
			return progress
		}
		in.hasPending = false
		progress = true
	}
}

// drainInlets services every registered inlet and compacts away the ones
// that are closed and empty. Reports whether any message was delivered.
func (b *Bus) drainInlets() bool {
	progress := false
	kept := b.inlets[:0]
	for _, in := range b.inlets {
		if in.drain(b) {
			progress = true
		}
		if in.closed.Load() != 0 && !in.hasPending {
			// One more dequeue attempt: a message may have been handed
			// over between the drain and the close flag.
			v, err := in.q.Dequeue()
			if err != nil {
				continue
			}
			in.pending = v
			in.hasPending = true
		}
		kept = append(kept, in)
	}
	b.inlets = kept
	return progress
}

// liveInlets reports whether any inlet can still produce a wakeup.
func (b *Bus) liveInlets() bool {
	return len(b.inlets) > 0
}
