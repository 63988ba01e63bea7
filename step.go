// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a bus protocol until its first operation.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended bus operation without a scheduler.
// The dispatch is non-blocking: a blocking operation that cannot make
// progress returns ErrWouldBlock and leaves the suspension unconsumed,
// to be retried once the bus state changes — the integration point for
// driving protocols from an outer event loop.
//
// On success (nil error) the suspension is consumed and the protocol
// advances to the next operation or to completion.
func Advance[R any](b *Bus, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	bop, ok := susp.Op().(busDispatcher)
	if !ok {
		panic("cobus: unhandled effect in Advance")
	}
	v, err := bop.DispatchBus(b)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
