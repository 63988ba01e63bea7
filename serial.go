// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing identifier.
// Buses, channels and tasks each receive the next serial value on
// creation. Channel descriptors are reused after close; serials are not,
// so diagnostics can tell two generations of the same descriptor apart.
type Serial = uint32

// counter is the global monotonic counter for serials.
var counter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return counter.Add(1)
}
