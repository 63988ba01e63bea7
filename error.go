// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Bus error codes. Every channel operation except Close stores exactly
// one of these (or nil for success) into the per-Bus errno slot before
// returning; Close leaves the slot untouched.
var (
	// ErrNoChannel reports a channel descriptor that is out of range,
	// a hole, or was closed while the caller was parked.
	ErrNoChannel = errors.New("cobus: no such channel")

	// ErrWouldBlock is the backpressure sentinel: a non-blocking
	// operation found the channel full (send) or empty (recv).
	// It is iox.ErrWouldBlock, the same boundary value used by the
	// rest of the stack.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrNotImplemented is reserved for optional operations absent
	// in a given build. No operation in this build returns it.
	ErrNotImplemented = errors.New("cobus: not implemented")
)

// errorDispatcher is the structural interface for error effects,
// instantiated per error type E at the spawn site.
type errorDispatcher[E any] interface {
	DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
}

// GoError spawns a task whose protocol may Throw. Bus operations park and
// resume as usual; error operations short-circuit the task, completing it
// with Left(err). The result is Either[E, R] — Right on normal completion.
func GoError[E, R any](b *Bus, protocol kont.Eff[R]) *Task[kont.Either[E, R]] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	tk := GoExpr(b, kont.Reify(wrapped))
	var errCtx kont.ErrorContext[E]
	tk.t.handleErr = func(op kont.Operation) (kont.Resumed, bool) {
		eop, ok := op.(errorDispatcher[E])
		if !ok {
			panic("cobus: unhandled effect in scheduler")
		}
		v, _ := eop.DispatchError(&errCtx)
		if errCtx.HasErr {
			return kont.Left[E, R](errCtx.Err), true
		}
		return v, false
	}
	return tk
}

// ExecError spawns the protocol with error handling and drives the bus
// until every task completes. Returns Either[E, R] — Right on success,
// Left on Throw.
func ExecError[E, R any](b *Bus, protocol kont.Eff[R]) kont.Either[E, R] {
	tk := GoError[E](b, protocol)
	b.Run()
	return tk.Result()
}

// AdvanceError dispatches the suspended operation on the bus.
// Bus operations are non-blocking (ErrWouldBlock leaves the suspension
// unconsumed). Error operations are eager: Throw discards the suspension
// and returns Left.
func AdvanceError[E, R any](b *Bus, susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	if bop, ok := susp.Op().(busDispatcher); ok {
		v, err := bop.DispatchBus(b)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	if eop, ok := susp.Op().(errorDispatcher[E]); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("cobus: unhandled effect in AdvanceError")
}
