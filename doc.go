// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cobus provides an in-process message bus for cooperatively
// scheduled tasks via algebraic effects on [code.hybscloud.com/kont].
//
// A bus is a set of independently addressable bounded FIFO channels
// carrying uint32 messages. Producers that find a channel full and
// consumers that find it empty park on the channel's wait queues and
// resume when the condition clears; closing a channel releases every
// waiter with [ErrNoChannel].
//
// # Architecture
//
//   - Channels: bounded FIFOs addressed through a descriptor table with
//     hole reuse and doubling growth. Descriptors are reusable after close.
//   - Non-blocking core: every operation is a [kont.Operation] whose
//     dispatch mutates the bus without suspending, returning
//     [code.hybscloud.com/iox.ErrWouldBlock] on backpressure.
//   - Scheduler: [Bus.Run] interleaves spawned tasks on the calling
//     goroutine. Blocking operations park the task on a wait queue; the
//     waker unlinks before waking, and a resumed task re-resolves its
//     descriptor, so suspensions straddling a close observe [ErrNoChannel].
//   - Error handling: the last error of each operation is returned and
//     stored in the per-bus errno slot ([Bus.Errno]). Error-world
//     protocols short-circuit returning [code.hybscloud.com/kont.Either].
//
// # API Topologies
//
//   - Operations: [Send], [Recv], [SendV], [RecvV], [Broadcast] (blocking),
//     their Try variants (non-blocking), [Open], [Close], [Yield].
//   - Direct calls: the non-suspending subset is also plain methods —
//     [Bus.Open], [Bus.Close], [Bus.TrySend], [Bus.TryRecv], [Bus.TrySendV],
//     [Bus.TryRecvV], [Bus.TryBroadcast].
//   - Cont-world: [SendThen], [RecvBranch], [OpenBind], [CloseThen],
//     [BroadcastThen], [SendVBind], [RecvVBind], [YieldThen], [Loop].
//   - Expr-world: zero-allocation variants like [ExprSendThen],
//     [ExprRecvBranch], [ExprLoop]. Bridge via [Reify] and [Reflect].
//
// # Integration
//
//   - Scheduling: [Go] and [GoExpr] spawn tasks; [Bus.Run] drives them to
//     completion; [Exec]/[ExecExpr] are the one-shot form.
//   - Stepping: [Step] and [Advance] (or [AdvanceError]) evaluate a
//     protocol one operation at a time without parking, for integration
//     with an outer event loop.
//   - Feeding: [Bus.OpenInlet] bridges a producer goroutine into a channel
//     over a bounded SPSC queue, drained whenever the scheduler is idle.
//
// # Example
//
//	b := cobus.New()
//	ch := b.Open(1)
//	cobus.Go(b, cobus.SendThen(ch, 42, kont.Pure(struct{}{})))
//	got := cobus.Exec(b, cobus.RecvBranch(ch,
//		func(v uint32) kont.Eff[uint32] { return kont.Pure(v) },
//		func(err error) kont.Eff[uint32] { return kont.Pure[uint32](0) },
//	))
package cobus
