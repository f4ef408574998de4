package core

import (
	"math/big"

	"github.com/holiman/uint256"
)

// flow_i128.go implements the signed 128-bit arithmetic the flow limiter
// needs (spec.md §3: "flow_limit: optional i128", §4.6's saturating add
// and overflow check). holiman/uint256 only models unsigned 256-bit
// words, so this uses math/big for the signed range check — no
// third-party library in the pack models a signed fixed-width integer;
// see DESIGN.md.

type uint256I128 struct{ v *big.Int }

var i128MaxBig = func() *big.Int {
	v, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	return v
}()

var i128MinBig = func() *big.Int {
	return new(big.Int).Neg(new(big.Int).Add(i128MaxBig, big.NewInt(1)))
}()

func zeroI128() *uint256I128 { return &uint256I128{v: big.NewInt(0)} }

func fromUint256(v *uint256.Int) *uint256I128 {
	return &uint256I128{v: v.ToBig()}
}

func (x *uint256I128) IsZero() bool  { return x.v.Sign() == 0 }
func (x *uint256I128) Gt(y *uint256I128) bool { return x.v.Cmp(y.v) > 0 }

func encodeI128(x *uint256I128) []byte {
	b := x.v.Bytes()
	neg := x.v.Sign() < 0
	out := make([]byte, 0, len(b)+1)
	if neg {
		out = append(out, 1)
		out = append(out, new(big.Int).Neg(x.v).Bytes()...)
	} else {
		out = append(out, 0)
		out = append(out, b...)
	}
	return out
}

func encodeI128FromInt64(v int64) []byte {
	return encodeI128(&uint256I128{v: big.NewInt(v)})
}

func decodeI128(b []byte) *uint256I128 {
	if len(b) == 0 {
		return zeroI128()
	}
	mag := new(big.Int).SetBytes(b[1:])
	if b[0] == 1 {
		mag.Neg(mag)
	}
	return &uint256I128{v: mag}
}

// saturatingAddI128 adds x and y, saturating at i128::MAX; overflow
// reports true if the mathematical sum would exceed i128::MAX (spec.md
// §4.6 step 1: "if overflow would exceed i128::MAX -> FlowAmountOverflow").
func saturatingAddI128(x, y *uint256I128) (sum *uint256I128, overflow bool) {
	s := new(big.Int).Add(x.v, y.v)
	if s.Cmp(i128MaxBig) > 0 {
		return &uint256I128{v: new(big.Int).Set(i128MaxBig)}, true
	}
	return &uint256I128{v: s}, false
}

func subI128(x, y *uint256I128) *uint256I128 {
	return &uint256I128{v: new(big.Int).Sub(x.v, y.v)}
}
