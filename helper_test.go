// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus_test

import (
	"code.hybscloud.com/cobus"
	"code.hybscloud.com/kont"
)

// sendAll is a producer task: sends every element of payload in order on
// channel, parking on backpressure, and returns the number of sends
// performed. SendThen ignores the outcome, so a send that failed on a
// closed channel is counted too.
func sendAll(channel int, payload []uint32) kont.Eff[int] {
	return cobus.Loop(0, func(i int) kont.Eff[kont.Either[int, int]] {
		if i == len(payload) {
			return kont.Pure(kont.Right[int](i))
		}
		return cobus.SendThen(channel, payload[i],
			kont.Pure(kont.Left[int, int](i+1)),
		)
	})
}

// recvN is a consumer task: receives n messages from channel in order,
// parking when it runs dry, and returns them. Ends early if the channel
// is closed under it.
func recvN(channel int, n int) kont.Eff[[]uint32] {
	return cobus.Loop(make([]uint32, 0, n), func(acc []uint32) kont.Eff[kont.Either[[]uint32, []uint32]] {
		if len(acc) == n {
			return kont.Pure(kont.Right[[]uint32](acc))
		}
		return cobus.RecvBranch(channel,
			func(v uint32) kont.Eff[kont.Either[[]uint32, []uint32]] {
				return kont.Pure(kont.Left[[]uint32, []uint32](append(acc, v)))
			},
			func(error) kont.Eff[kont.Either[[]uint32, []uint32]] {
				return kont.Pure(kont.Right[[]uint32](acc))
			},
		)
	})
}

// seq returns 1..n as a payload.
func seq(n int) []uint32 {
	s := make([]uint32, n)
	for i := range s {
		s[i] = uint32(i + 1)
	}
	return s
}
