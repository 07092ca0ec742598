//go:build !gmp

package accuracy

import "math/big"

// Backend names the arbitrary-precision library behind NewAccumulator.
const Backend = "math/big"

type bigAccumulator struct {
	sum     big.Int
	product big.Int
	step    big.Int
}

// NewAccumulator returns an empty exact accumulator.
func NewAccumulator() Accumulator {
	return &bigAccumulator{}
}

func (a *bigAccumulator) AddProduct(y, step float64) {
	my, ey := decompose(y)
	ms, es := decompose(step)
	a.product.SetInt64(my)
	a.step.SetInt64(ms)
	a.product.Mul(&a.product, &a.step)
	a.product.Lsh(&a.product, uint(ey+es+scale))
	a.sum.Add(&a.sum, &a.product)
}

func (a *bigAccumulator) Float64() float64 {
	f := new(big.Float).SetInt(&a.sum)
	f.SetMantExp(f, -scale)
	v, _ := f.Float64()
	return v
}
