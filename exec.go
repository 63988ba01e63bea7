// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/kont"
)

// Exec spawns a Cont-world protocol and drives the bus until every task
// completes, returning the protocol's result. Convenience for
// Go + Run + Result.
func Exec[R any](b *Bus, protocol kont.Eff[R]) R {
	tk := Go(b, protocol)
	b.Run()
	return tk.Result()
}

// ExecExpr spawns an Expr-world protocol and drives the bus until every
// task completes, returning the protocol's result.
func ExecExpr[R any](b *Bus, protocol kont.Expr[R]) R {
	tk := GoExpr(b, protocol)
	b.Run()
	return tk.Result()
}
