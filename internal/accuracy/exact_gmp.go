//go:build gmp

package accuracy

import (
	"math/big"

	"github.com/ncw/gmp"
)

// Backend names the arbitrary-precision library behind NewAccumulator.
const Backend = "gmp"

type gmpAccumulator struct {
	sum     *gmp.Int
	product *gmp.Int
	step    *gmp.Int
}

// NewAccumulator returns an empty exact accumulator.
func NewAccumulator() Accumulator {
	return &gmpAccumulator{sum: gmp.NewInt(0), product: gmp.NewInt(0), step: gmp.NewInt(0)}
}

func (a *gmpAccumulator) AddProduct(y, step float64) {
	my, ey := decompose(y)
	ms, es := decompose(step)
	a.product.SetInt64(my)
	a.step.SetInt64(ms)
	a.product.Mul(a.product, a.step)
	a.product.Lsh(a.product, uint(ey+es+scale))
	a.sum.Add(a.sum, a.product)
}

func (a *gmpAccumulator) Float64() float64 {
	var n big.Int
	n.SetBytes(new(gmp.Int).Abs(a.sum).Bytes())
	if a.sum.Sign() < 0 {
		n.Neg(&n)
	}
	f := new(big.Float).SetInt(&n)
	f.SetMantExp(f, -scale)
	v, _ := f.Float64()
	return v
}
