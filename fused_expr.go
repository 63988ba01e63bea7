// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame during Expr-world
// execution.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprYield       kont.Erased = Yield{}
)

// identityResume is the identity resume function for EffectFrame
// construction. Named function produces a static function value,
// consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprSendThen sends v on channel and then continues with next.
// Fuses ExprPerform(Send{...}) + ExprThen.
func ExprSendThen[B any](channel int, v uint32, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send{Channel: channel, Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func recvBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(kont.Either[error, uint32]) kont.Expr[B])
	result := f(current.(kont.Either[error, uint32]))
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind receives from channel and passes the raw outcome to f.
// Fuses ExprPerform(Recv{...}) + ExprBind.
func ExprRecvBind[B any](channel int, f func(kont.Either[error, uint32]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = recvBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv{Channel: channel}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func recvBranchUnwind[A any](data, data2, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	ok := data.(func(uint32) kont.Expr[A])
	fail := data2.(func(error) kont.Expr[A])
	e := current.(kont.Either[error, uint32])
	var result kont.Expr[A]
	if err, isErr := e.GetLeft(); isErr {
		result = fail(err)
	} else {
		v, _ := e.GetRight()
		result = ok(v)
	}
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBranch receives from channel and branches on the outcome.
// Fuses ExprPerform(Recv{...}) + ExprBind + Either branch.
func ExprRecvBranch[A any](channel int, ok func(uint32) kont.Expr[A], fail func(error) kont.Expr[A]) kont.Expr[A] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = ok
	bf.Data2 = fail
	bf.Unwind = recvBranchUnwind[A]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv{Channel: channel}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[A](ef)
}

func openBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(int) kont.Expr[B])
	result := f(current.(int))
	return kont.Erased(result.Value), result.Frame
}

// ExprOpenBind opens a channel and passes the new descriptor to f.
// Fuses ExprPerform(Open{...}) + ExprBind.
func ExprOpenBind[B any](capacity int, f func(int) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = openBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Open{Capacity: capacity}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprCloseThen closes channel and then continues with next.
// Fuses ExprPerform(Close{...}) + ExprThen.
func ExprCloseThen[B any](channel int, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Close{Channel: channel}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprYieldThen reschedules the task and then continues with next.
// Fuses ExprPerform(Yield{}) + ExprThen.
func ExprYieldThen[B any](next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprYield
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}
