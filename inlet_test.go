// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/cobus"
)

func TestInletFeedsParkedReceiver(t *testing.T) {
	skipRace(t)
	b := cobus.New()
	id := b.Open(2)
	in := b.OpenInlet(id)

	const n = 32
	go func() {
		for i := uint32(1); i <= n; i++ {
			if err := in.PutWait(i); err != nil {
				return
			}
		}
		in.Close()
	}()

	got := cobus.Exec(b, recvN(id, n))
	if len(got) != n {
		t.Fatalf("received %d messages, want %d", len(got), n)
	}
	for i, v := range got {
		if v != uint32(i+1) {
			t.Fatalf("message %d got %d, want %d", i, v, i+1)
		}
	}
}

func TestInletPutNonBlocking(t *testing.T) {
	skipRace(t)
	b := cobus.New()
	id := b.Open(1)
	in := b.OpenInlet(id)

	// The transfer queue is bounded; with no scheduler draining it, Put
	// eventually reports backpressure instead of blocking.
	var err error
	for i := 0; i < 64; i++ {
		if err = in.Put(uint32(i)); err != nil {
			break
		}
	}
	if !errors.Is(err, cobus.ErrWouldBlock) {
		t.Fatalf("Put never hit backpressure: %v", err)
	}
}

func TestInletPutAfterClose(t *testing.T) {
	skipRace(t)
	b := cobus.New()
	id := b.Open(1)
	in := b.OpenInlet(id)
	in.Close()

	if err := in.Put(1); !errors.Is(err, cobus.ErrNoChannel) {
		t.Fatalf("Put after Close got %v, want ErrNoChannel", err)
	}
	if err := in.PutWait(1); !errors.Is(err, cobus.ErrNoChannel) {
		t.Fatalf("PutWait after Close got %v, want ErrNoChannel", err)
	}
}

// Messages handed over before Close are still delivered.
func TestInletDrainsAfterClose(t *testing.T) {
	skipRace(t)
	b := cobus.New()
	id := b.Open(4)
	in := b.OpenInlet(id)

	for i := uint32(1); i <= 3; i++ {
		if err := in.Put(i); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	in.Close()

	got := cobus.Exec(b, recvN(id, 3))
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}
