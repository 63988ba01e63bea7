// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/kont"
)

// Reify converts a Cont-world bus protocol to Expr-world.
// The resulting Expr can be spawned with GoExpr, run with ExecExpr, or
// stepped with Step and Advance.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world bus protocol to Cont-world.
// The resulting Eff can be spawned with Go or run with Exec.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}
