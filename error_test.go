// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus_test

import (
	"testing"

	"code.hybscloud.com/cobus"
	"code.hybscloud.com/kont"
)

func TestExecErrorSuccess(t *testing.T) {
	b := cobus.New()
	id := b.Open(1)
	cobus.Go(b, cobus.SendThen(id, 42, kont.Pure(struct{}{})))

	result := cobus.ExecError[string](b, cobus.RecvBranch(id,
		func(v uint32) kont.Eff[uint32] { return kont.Pure(v) },
		func(error) kont.Eff[uint32] { return kont.Pure[uint32](0) },
	))
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	v, _ := result.GetRight()
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestExecErrorThrow(t *testing.T) {
	b := cobus.New()
	id := b.Open(1)

	result := cobus.ExecError[string](b, cobus.SendThen(id, 1,
		kont.ThrowError[string, string]("boom"),
	))
	if !result.IsLeft() {
		t.Fatalf("expected Left, got Right")
	}
	errVal, _ := result.GetLeft()
	if errVal != "boom" {
		t.Fatalf("error got %q, want %q", errVal, "boom")
	}
	// The send before the throw went through.
	v, err := b.TryRecv(id)
	if err != nil || v != 1 {
		t.Fatalf("TryRecv got (%d, %v), want (1, nil)", v, err)
	}
}

func TestExecErrorCatchRecovery(t *testing.T) {
	b := cobus.New()
	id := b.Open(1)
	cobus.Go(b, cobus.SendThen(id, 5, kont.Pure(struct{}{})))

	// Catch body and handler must be pure error effects (no bus ops).
	protocol := kont.Bind(
		kont.CatchError(
			kont.ThrowError[string, string]("fail"),
			func(e string) kont.Eff[string] {
				return kont.Pure("recovered: " + e)
			},
		),
		func(s string) kont.Eff[string] {
			return cobus.RecvBranch(id,
				func(uint32) kont.Eff[string] { return kont.Pure(s) },
				func(error) kont.Eff[string] { return kont.Pure("no channel") },
			)
		},
	)

	result := cobus.ExecError[string](b, protocol)
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	s, _ := result.GetRight()
	if s != "recovered: fail" {
		t.Fatalf("got %q, want %q", s, "recovered: fail")
	}
}

// An error-world task parks and resumes through the bus like any other.
func TestGoErrorParksOnBackpressure(t *testing.T) {
	b := cobus.New()
	id := b.Open(1)
	if err := b.TrySend(id, 1); err != nil {
		t.Fatalf("fill: %v", err)
	}

	blocked := cobus.GoError[string](b, cobus.SendThen(id, 2, kont.Pure("through")))
	cobus.Go(b, recvN(id, 2))
	b.Run()

	result := blocked.Result()
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	s, _ := result.GetRight()
	if s != "through" {
		t.Fatalf("got %q, want %q", s, "through")
	}
}

func TestAdvanceErrorThrowDiscards(t *testing.T) {
	b := cobus.New()
	id := b.Open(1)

	protocol := kont.ExprMap(cobus.Reify(cobus.SendThen(id, 3,
		kont.ThrowError[string, string]("late"),
	)), func(s string) kont.Either[string, string] {
		return kont.Right[string, string](s)
	})

	result, susp := cobus.Step[kont.Either[string, string]](protocol)
	for susp != nil {
		var err error
		result, susp, err = cobus.AdvanceError[string, string](b, susp)
		if err != nil {
			t.Fatalf("AdvanceError: %v", err)
		}
	}
	if !result.IsLeft() {
		t.Fatalf("expected Left, got Right")
	}
	errVal, _ := result.GetLeft()
	if errVal != "late" {
		t.Fatalf("got %q, want %q", errVal, "late")
	}
}
