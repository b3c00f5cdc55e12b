package torus

import "math"

// Num is a real number in a signed Q4.4 fixed-point format stored in a single
// byte: four integer bits, four fractional bits, two's complement. The
// represented value is the signed byte divided by 16. The byte layout is a
// stable format that must be preserved by any interchange.
type Num uint8

// Encode will convert a real number to its fixed-point representation. The
// conversion adds 0.5 and takes the floor which rounds ties toward positive
// and keeps every representable value round-trip stable.
// Values outside the representable range saturate at -128 and 127, they do
// not wrap.
func Encode(x float64) Num {
	// scale and round
	v := math.Floor(x*16.0 + 0.5)

	// clamp to representable range
	if v > 127 {
		v = 127
	} else if v < -128 {
		v = -128
	}

	return Num(int8(v))
}

// Decode will convert a fixed-point number back to a real number.
func Decode(p Num) float64 {
	return float64(int8(p)) / 16.0
}

// Add will add two fixed-point numbers with saturation and charge one
// irreversible operation to the provided ledger. Saturation may discard
// information which makes this the only intrinsically lossy primitive in the
// instruction set.
func Add(a, b Num, ledger *Ledger) Num {
	// charge ledger
	ledger.Increment(1)

	// sign extend and add
	r := int16(int8(a)) + int16(int8(b))

	// clamp to representable range
	if r > 127 {
		r = 127
	} else if r < -128 {
		r = -128
	}

	return Num(int8(r))
}
