// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// task is the scheduler's record of one spawned protocol. A runnable
// task sits on the run queue; a parked task is threaded on exactly one
// channel wait queue, holding its unconsumed suspension until a wakeup
// re-dispatches it. Linkage for both queues is intrusive, so parking and
// waking allocate nothing.
type task struct {
	serial Serial
	susp   *kont.Suspension[any]
	result any
	done   bool

	next  *task // run queue
	wnext *task // wait queue
	// waiting is the queue the task is parked on, nil while runnable.
	waiting *waitQueue
	queued  bool

	// handleErr dispatches non-bus (error-world) effects; set by
	// GoError, nil for plain tasks. Reports (resumedValue, threw).
	handleErr func(op kont.Operation) (kont.Resumed, bool)
}

// taskQueue is the intrusive FIFO run queue.
type taskQueue struct {
	head, tail *task
}

func (q *taskQueue) push(t *task) {
	t.next = nil
	if q.tail == nil {
		q.head = t
	} else {
		q.tail.next = t
	}
	q.tail = t
}

func (q *taskQueue) pop() *task {
	t := q.head
	if t == nil {
		return nil
	}
	q.head = t.next
	if q.head == nil {
		q.tail = nil
	}
	t.next = nil
	return t
}

// Task is the typed handle returned by Go/GoExpr.
type Task[R any] struct {
	t *task
}

// Done reports whether the task has run to completion.
func (tk *Task[R]) Done() bool {
	return tk.t.done
}

// Result returns the task's final value. It panics on a task that has
// not completed; call it after Run returns, or guard with Done.
func (tk *Task[R]) Result() R {
	if !tk.t.done {
		panic("cobus: result of pending task")
	}
	return tk.t.result.(R)
}

// Serial returns the serial number assigned to this task.
func (tk *Task[R]) Serial() Serial {
	return tk.t.serial
}

// Go spawns a Cont-world protocol as a task on the bus and returns its
// handle. As with GoExpr, the protocol is evaluated up to its first
// effect at spawn; its operations are dispatched when Run is called.
// Spawning from inside a running task is allowed and the new task joins
// the current cycle.
func Go[R any](b *Bus, protocol kont.Eff[R]) *Task[R] {
	return GoExpr(b, kont.Reify(protocol))
}

// GoExpr spawns an Expr-world protocol as a task on the bus.
// The protocol is evaluated up to its first effect immediately; a
// protocol with no effects completes at spawn.
func GoExpr[R any](b *Bus, protocol kont.Expr[R]) *Task[R] {
	erased := kont.ExprMap(protocol, func(r R) any { return r })
	t := &task{serial: nextSerial()}
	result, susp := kont.StepExpr(erased)
	if susp == nil {
		t.result = result
		t.done = true
		return &Task[R]{t: t}
	}
	t.susp = susp
	b.live++
	b.ready(t)
	return &Task[R]{t: t}
}

// ready puts t on the run queue. Idempotent: waking an already-runnable
// task is a no-op, per the wakeup contract.
func (b *Bus) ready(t *task) {
	if t.queued || t.done {
		return
	}
	t.queued = true
	b.runq.push(t)
}

// finish records the task's result and retires it.
func (b *Bus) finish(t *task, result any) {
	t.result = result
	t.done = true
	t.susp = nil
	b.live--
}

// step runs t until it parks, yields, or completes. All bus mutation
// happens inside the dispatches here; between them the task cannot be
// interleaved with, which is what makes check-then-mutate atomic.
func (b *Bus) step(t *task) {
	b.current = t
	defer func() { b.current = nil }()
	for {
		op := t.susp.Op()
		if _, ok := op.(Yield); ok {
			result, next := t.susp.Resume(struct{}{})
			if next == nil {
				b.finish(t, result)
				return
			}
			t.susp = next
			b.ready(t)
			return
		}
		var v kont.Resumed
		if bop, ok := op.(busDispatcher); ok {
			var err error
			v, err = bop.DispatchBus(b)
			if err != nil {
				// Would block on a blocking operation: park on the
				// condition that failed and keep the suspension for
				// re-dispatch after wakeup.
				b.park(t, bop.parkTarget(b))
				return
			}
		} else if t.handleErr != nil {
			var threw bool
			v, threw = t.handleErr(op)
			if threw {
				t.susp.Discard()
				b.finish(t, v)
				return
			}
		} else {
			panic("cobus: unhandled effect in scheduler")
		}
		result, next := t.susp.Resume(v)
		if next == nil {
			b.finish(t, result)
			return
		}
		t.susp = next
	}
}

// Run drives the bus until every spawned task has completed. Tasks run
// cooperatively on the calling goroutine: each runs until it parks,
// yields or finishes, and wakeups feed the run queue in FIFO order.
//
// When no task is runnable, Run drains the registered inlets; while a
// live inlet remains it waits for its producer with adaptive backoff
// (iox.Backoff) instead of giving up. With no wakeup source left at all,
// the remaining parked tasks can never resume — that is a caller bug,
// and Run panics.
func (b *Bus) Run() {
	var bo iox.Backoff
	for b.live > 0 {
		t := b.runq.pop()
		if t == nil {
			if b.drainInlets() {
				bo.Reset()
				continue
			}
			if b.liveInlets() {
				bo.Wait()
				continue
			}
			panic("cobus: deadlock: tasks parked with no wakeup source")
		}
		t.queued = false
		b.step(t)
	}
}
