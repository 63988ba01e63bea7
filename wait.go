// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

// waitQueue is a FIFO of parked tasks threaded through the tasks
// themselves. The queue holds only the anchor; linkage lives on the task
// record, so parking allocates nothing and the queue can never outlive
// its entries.
//
// Wakeup discipline: the waker unlinks the head before making it
// runnable. A resumed task therefore never observes its own stale entry,
// and closing a channel can free the anchors immediately after waking
// everyone.
type waitQueue struct {
	head, tail *task
}

func (q *waitQueue) empty() bool {
	return q.head == nil
}

// push appends t to the tail. t must not be linked anywhere else:
// a task waits on at most one queue at a time.
func (q *waitQueue) push(t *task) {
	t.wnext = nil
	if q.tail == nil {
		q.head = t
	} else {
		q.tail.wnext = t
	}
	q.tail = t
}

// pop unlinks and returns the head, or nil if the queue is empty.
func (q *waitQueue) pop() *task {
	t := q.head
	if t == nil {
		return nil
	}
	q.head = t.wnext
	if q.head == nil {
		q.tail = nil
	}
	t.wnext = nil
	return t
}

// park links the running task onto q. The task stays off the run queue
// until a wakeOne or wakeAll on q delivers it back.
func (b *Bus) park(t *task, q *waitQueue) {
	t.waiting = q
	q.push(t)
}

// wakeOne unlinks the first waiter and makes it runnable.
// No-op on an empty queue.
func (b *Bus) wakeOne(q *waitQueue) {
	t := q.pop()
	if t == nil {
		return
	}
	t.waiting = nil
	b.ready(t)
}

// wakeAll drains q in wait order.
func (b *Bus) wakeAll(q *waitQueue) {
	for !q.empty() {
		b.wakeOne(q)
	}
}
