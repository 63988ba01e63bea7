// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/kont"
)

// SendThen sends v on channel — parking while it is full — and then
// continues with next, regardless of outcome. The outcome is queryable
// via Errno; use SendBranch to branch on it.
// Fuses Perform(Send{...}) + Then.
func SendThen[B any](channel int, v uint32, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send{Channel: channel, Value: v}), next)
}

// SendBranch sends v on channel and branches on the outcome: ok on
// delivery, fail with ErrNoChannel if the channel vanished.
// Fuses Perform(Send{...}) + Bind + Either branch.
func SendBranch[A any](channel int, v uint32, ok func() kont.Eff[A], fail func(error) kont.Eff[A]) kont.Eff[A] {
	return kont.Bind(kont.Perform(Send{Channel: channel, Value: v}), func(e kont.Either[error, struct{}]) kont.Eff[A] {
		if err, isErr := e.GetLeft(); isErr {
			return fail(err)
		}
		return ok()
	})
}

// RecvBind receives from channel — parking while it is empty — and
// passes the raw outcome to f.
// Fuses Perform(Recv{...}) + Bind.
func RecvBind[B any](channel int, f func(kont.Either[error, uint32]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv{Channel: channel}), f)
}

// RecvBranch receives from channel and branches on the outcome: ok with
// the message, fail with ErrNoChannel if the channel vanished.
// Fuses Perform(Recv{...}) + Bind + Either branch.
func RecvBranch[A any](channel int, ok func(uint32) kont.Eff[A], fail func(error) kont.Eff[A]) kont.Eff[A] {
	return kont.Bind(kont.Perform(Recv{Channel: channel}), func(e kont.Either[error, uint32]) kont.Eff[A] {
		if err, isErr := e.GetLeft(); isErr {
			return fail(err)
		}
		v, _ := e.GetRight()
		return ok(v)
	})
}

// TrySendBranch sends without parking: fail sees ErrWouldBlock on a full
// channel instead of the task suspending.
func TrySendBranch[A any](channel int, v uint32, ok func() kont.Eff[A], fail func(error) kont.Eff[A]) kont.Eff[A] {
	return kont.Bind(kont.Perform(TrySend{Channel: channel, Value: v}), func(e kont.Either[error, struct{}]) kont.Eff[A] {
		if err, isErr := e.GetLeft(); isErr {
			return fail(err)
		}
		return ok()
	})
}

// TryRecvBranch receives without parking: fail sees ErrWouldBlock on an
// empty channel instead of the task suspending.
func TryRecvBranch[A any](channel int, ok func(uint32) kont.Eff[A], fail func(error) kont.Eff[A]) kont.Eff[A] {
	return kont.Bind(kont.Perform(TryRecv{Channel: channel}), func(e kont.Either[error, uint32]) kont.Eff[A] {
		if err, isErr := e.GetLeft(); isErr {
			return fail(err)
		}
		v, _ := e.GetRight()
		return ok(v)
	})
}

// OpenBind opens a channel with the given capacity and passes the new
// descriptor to f.
// Fuses Perform(Open{...}) + Bind.
func OpenBind[B any](capacity int, f func(int) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Open{Capacity: capacity}), f)
}

// CloseThen closes channel, releasing everyone parked on it, and then
// continues with next.
// Fuses Perform(Close{...}) + Then.
func CloseThen[B any](channel int, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Close{Channel: channel}), next)
}

// YieldThen reschedules the task to the tail of the run queue and then
// continues with next.
// Fuses Perform(Yield{}) + Then.
func YieldThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield{}), next)
}

// BroadcastThen delivers v to every open channel — parking while any is
// full — and then continues with next. The outcome is queryable via
// Errno; use BroadcastBranch to branch on it.
func BroadcastThen[B any](v uint32, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Broadcast{Value: v}), next)
}

// BroadcastBranch delivers v to every open channel and branches on the
// outcome: fail sees ErrNoChannel when none is open.
func BroadcastBranch[A any](v uint32, ok func() kont.Eff[A], fail func(error) kont.Eff[A]) kont.Eff[A] {
	return kont.Bind(kont.Perform(Broadcast{Value: v}), func(e kont.Either[error, struct{}]) kont.Eff[A] {
		if err, isErr := e.GetLeft(); isErr {
			return fail(err)
		}
		return ok()
	})
}

// SendVBind appends up to len(data) messages — parking only while
// nothing fits — and passes the outcome (the count appended, possibly
// short) to f.
func SendVBind[B any](channel int, data []uint32, f func(kont.Either[error, int]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(SendV{Channel: channel, Data: data}), f)
}

// RecvVBind pops up to len(buf) messages into buf — parking only while
// the channel is empty — and passes the outcome (the filled prefix of
// buf) to f.
func RecvVBind[B any](channel int, buf []uint32, f func(kont.Either[error, []uint32]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(RecvV{Channel: channel, Buf: buf}), f)
}
