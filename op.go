// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"errors"

	"code.hybscloud.com/kont"
)

// Bus operations are effects: each type below is a kont.Operation whose
// DispatchBus mutates the bus without ever suspending. Blocking is the
// scheduler's job — a dispatch that returns ErrWouldBlock on a blocking
// operation tells the scheduler to park the task on parkTarget's wait
// queue and re-dispatch after wakeup. Re-dispatch re-resolves the
// descriptor, which is how a task parked across a close observes
// ErrNoChannel.
//
// Try variants never park: backpressure comes back as a Left value and
// the task keeps running.
type busDispatcher interface {
	DispatchBus(b *Bus) (kont.Resumed, error)
	// parkTarget returns the wait queue to park on when DispatchBus
	// reported ErrWouldBlock. Called in the same atomic section as the
	// failed dispatch, so the target is still current.
	parkTarget(b *Bus) *waitQueue
}

// okUnit is the pre-boxed success value for unit-resulting operations,
// avoiding a per-dispatch allocation when boxing into Resumed.
var okUnit kont.Resumed = kont.Right[error](struct{}{})

// failUnit boxes err as the failure value of a unit-resulting operation.
func failUnit(err error) kont.Resumed {
	return kont.Left[error, struct{}](err)
}

// Send is the blocking send operation: appends Value to the channel's
// FIFO, parking while the channel is full. Resumes with Right on
// delivery or Left(ErrNoChannel) if the channel vanishes.
type Send struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Channel int
	Value   uint32
}

func (s Send) DispatchBus(b *Bus) (kont.Resumed, error) {
	err := b.TrySend(s.Channel, s.Value)
	if errors.Is(err, ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return failUnit(err), nil
	}
	return okUnit, nil
}

func (s Send) parkTarget(b *Bus) *waitQueue {
	return &b.lookup(s.Channel).sendq
}

// Recv is the blocking receive operation: pops the oldest message,
// parking while the channel is empty. Resumes with Right(message) or
// Left(ErrNoChannel).
type Recv struct {
	kont.Phantom[kont.Either[error, uint32]]
	Channel int
}

func (r Recv) DispatchBus(b *Bus) (kont.Resumed, error) {
	v, err := b.TryRecv(r.Channel)
	if errors.Is(err, ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, uint32](err), nil
	}
	return kont.Right[error](v), nil
}

func (r Recv) parkTarget(b *Bus) *waitQueue {
	return &b.lookup(r.Channel).recvq
}

// TrySend is the non-blocking send operation. Resumes with
// Left(ErrWouldBlock) instead of parking.
type TrySend struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Channel int
	Value   uint32
}

func (s TrySend) DispatchBus(b *Bus) (kont.Resumed, error) {
	if err := b.TrySend(s.Channel, s.Value); err != nil {
		return failUnit(err), nil
	}
	return okUnit, nil
}

func (TrySend) parkTarget(*Bus) *waitQueue { return nil }

// TryRecv is the non-blocking receive operation.
type TryRecv struct {
	kont.Phantom[kont.Either[error, uint32]]
	Channel int
}

func (r TryRecv) DispatchBus(b *Bus) (kont.Resumed, error) {
	v, err := b.TryRecv(r.Channel)
	if err != nil {
		return kont.Left[error, uint32](err), nil
	}
	return kont.Right[error](v), nil
}

func (TryRecv) parkTarget(*Bus) *waitQueue { return nil }

// SendV is the blocking batch send: appends up to len(Data) messages,
// parking only while nothing at all fits. Resumes with Right(k), the
// number appended — possibly short of len(Data).
type SendV struct {
	kont.Phantom[kont.Either[error, int]]
	Channel int
	Data    []uint32
}

func (s SendV) DispatchBus(b *Bus) (kont.Resumed, error) {
	k, err := b.TrySendV(s.Channel, s.Data)
	if errors.Is(err, ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, int](err), nil
	}
	return kont.Right[error](k), nil
}

func (s SendV) parkTarget(b *Bus) *waitQueue {
	return &b.lookup(s.Channel).sendq
}

// RecvV is the blocking batch receive: pops up to len(Buf) messages into
// Buf, parking only while the channel is empty. Resumes with
// Right(Buf[:k]).
type RecvV struct {
	kont.Phantom[kont.Either[error, []uint32]]
	Channel int
	Buf     []uint32
}

func (r RecvV) DispatchBus(b *Bus) (kont.Resumed, error) {
	k, err := b.TryRecvV(r.Channel, r.Buf)
	if errors.Is(err, ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, []uint32](err), nil
	}
	return kont.Right[error](r.Buf[:k]), nil
}

func (r RecvV) parkTarget(b *Bus) *waitQueue {
	return &b.lookup(r.Channel).recvq
}

// TrySendV is the non-blocking batch send.
type TrySendV struct {
	kont.Phantom[kont.Either[error, int]]
	Channel int
	Data    []uint32
}

func (s TrySendV) DispatchBus(b *Bus) (kont.Resumed, error) {
	k, err := b.TrySendV(s.Channel, s.Data)
	if err != nil {
		return kont.Left[error, int](err), nil
	}
	return kont.Right[error](k), nil
}

func (TrySendV) parkTarget(*Bus) *waitQueue { return nil }

// TryRecvV is the non-blocking batch receive.
type TryRecvV struct {
	kont.Phantom[kont.Either[error, []uint32]]
	Channel int
	Buf     []uint32
}

func (r TryRecvV) DispatchBus(b *Bus) (kont.Resumed, error) {
	k, err := b.TryRecvV(r.Channel, r.Buf)
	if err != nil {
		return kont.Left[error, []uint32](err), nil
	}
	return kont.Right[error](r.Buf[:k]), nil
}

func (TryRecvV) parkTarget(*Bus) *waitQueue { return nil }

// Broadcast is the blocking broadcast: delivers Value to every open
// channel atomically with respect to capacity, parking on a full channel
// and rescanning after each wakeup. Resumes with Left(ErrNoChannel) when
// no channel is open.
type Broadcast struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Value uint32
}

func (s Broadcast) DispatchBus(b *Bus) (kont.Resumed, error) {
	err := b.TryBroadcast(s.Value)
	if errors.Is(err, ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return failUnit(err), nil
	}
	return okUnit, nil
}

func (Broadcast) parkTarget(b *Bus) *waitQueue {
	return b.fullChannel()
}

// TryBroadcast is the non-blocking broadcast.
type TryBroadcast struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Value uint32
}

func (s TryBroadcast) DispatchBus(b *Bus) (kont.Resumed, error) {
	if err := b.TryBroadcast(s.Value); err != nil {
		return failUnit(err), nil
	}
	return okUnit, nil
}

func (TryBroadcast) parkTarget(*Bus) *waitQueue { return nil }

// Open creates a channel and resumes with its descriptor. Never parks.
type Open struct {
	kont.Phantom[int]
	Capacity int
}

func (o Open) DispatchBus(b *Bus) (kont.Resumed, error) {
	return b.Open(o.Capacity), nil
}

func (Open) parkTarget(*Bus) *waitQueue { return nil }

// Close destroys a channel, releasing every task parked on it.
// Never parks; closing an unknown descriptor is a no-op.
type Close struct {
	kont.Phantom[struct{}]
	Channel int
}

func (c Close) DispatchBus(b *Bus) (kont.Resumed, error) {
	b.Close(c.Channel)
	return struct{}{}, nil
}

func (Close) parkTarget(*Bus) *waitQueue { return nil }

// Yield reschedules the task without parking it: the scheduler rotates
// it to the tail of the run queue. Under Advance (no scheduler) it is a
// no-op.
type Yield struct {
	kont.Phantom[struct{}]
}

func (Yield) DispatchBus(*Bus) (kont.Resumed, error) {
	return struct{}{}, nil
}

func (Yield) parkTarget(*Bus) *waitQueue { return nil }
