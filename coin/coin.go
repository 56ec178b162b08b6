// Package coin implements the three-tier lovelace numeric tower the ledger
// rules are built on: a bounded non-negative Coin, an arbitrary-precision
// signed Unbounded, and an arbitrary-precision rational Fractional.
//
// Widening is explicit: Coin + Coin never silently saturates or wraps, it
// produces an Unbounded that the caller must narrow back down with ToCoin,
// surfacing Underflow/Overflow as typed errors instead of hiding them behind
// a default.
package coin

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrUnderflow is returned when narrowing an Unbounded or Fractional
	// value that is negative into a Coin.
	ErrUnderflow = errors.New("coin: underflow")
	// ErrOverflow is returned when narrowing a value that exceeds the
	// maximum representable Coin (2^63 - 1 lovelace).
	ErrOverflow = errors.New("coin: overflow")
)

// MaxCoin is the largest value a Coin may hold.
const MaxCoin uint64 = 1<<63 - 1

// Coin is a bounded, non-negative amount of lovelace.
type Coin struct {
	lovelace uint64
}

// Zero is the additive identity.
var Zero = Coin{}

// New constructs a Coin from a signed amount, failing if negative or above
// MaxCoin.
func New(lovelace int64) (Coin, error) {
	if lovelace < 0 {
		return Coin{}, fmt.Errorf("%w: %d lovelace", ErrUnderflow, lovelace)
	}
	if uint64(lovelace) > MaxCoin {
		return Coin{}, fmt.Errorf("%w: %d lovelace", ErrOverflow, lovelace)
	}
	return Coin{lovelace: uint64(lovelace)}, nil
}

// NewFromUint64 constructs a Coin from an already-non-negative amount.
func NewFromUint64(lovelace uint64) (Coin, error) {
	if lovelace > MaxCoin {
		return Coin{}, fmt.Errorf("%w: %d lovelace", ErrOverflow, lovelace)
	}
	return Coin{lovelace: lovelace}, nil
}

// Lovelace returns the underlying amount.
func (c Coin) Lovelace() uint64 {
	return c.lovelace
}

// IsZero reports whether c is the zero coin.
func (c Coin) IsZero() bool {
	return c.lovelace == 0
}

// Cmp compares two coins: -1, 0, 1.
func (c Coin) Cmp(other Coin) int {
	switch {
	case c.lovelace < other.lovelace:
		return -1
	case c.lovelace > other.lovelace:
		return 1
	default:
		return 0
	}
}

// Add widens to Unbounded; the result may exceed MaxCoin.
func (c Coin) Add(other Coin) Unbounded {
	return Unbounded{v: new(big.Int).Add(bigFromUint64(c.lovelace), bigFromUint64(other.lovelace))}
}

// Sub widens to Unbounded; the result may be negative.
func (c Coin) Sub(other Coin) Unbounded {
	return Unbounded{v: new(big.Int).Sub(bigFromUint64(c.lovelace), bigFromUint64(other.lovelace))}
}

// MulInt scales by an integer factor, widening to Unbounded.
func (c Coin) MulInt(factor int64) Unbounded {
	return Unbounded{v: new(big.Int).Mul(bigFromUint64(c.lovelace), big.NewInt(factor))}
}

// ToUnbounded is a lossless widening conversion.
func (c Coin) ToUnbounded() Unbounded {
	return Unbounded{v: bigFromUint64(c.lovelace)}
}

func bigFromUint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func (c Coin) String() string {
	return fmt.Sprintf("%d", c.lovelace)
}

// Unbounded is an arbitrary-precision signed integer amount of lovelace,
// used as the intermediate result of any Coin arithmetic that might
// overflow or go negative.
type Unbounded struct {
	v *big.Int
}

// UnboundedFromInt64 builds an Unbounded directly, mainly for tests.
func UnboundedFromInt64(v int64) Unbounded {
	return Unbounded{v: big.NewInt(v)}
}

func (u Unbounded) bigInt() *big.Int {
	if u.v == nil {
		return big.NewInt(0)
	}
	return u.v
}

// Add returns u + other.
func (u Unbounded) Add(other Unbounded) Unbounded {
	return Unbounded{v: new(big.Int).Add(u.bigInt(), other.bigInt())}
}

// Sub returns u - other.
func (u Unbounded) Sub(other Unbounded) Unbounded {
	return Unbounded{v: new(big.Int).Sub(u.bigInt(), other.bigInt())}
}

// Neg returns -u.
func (u Unbounded) Neg() Unbounded {
	return Unbounded{v: new(big.Int).Neg(u.bigInt())}
}

// Sign returns -1, 0 or 1.
func (u Unbounded) Sign() int {
	return u.bigInt().Sign()
}

// Cmp compares two Unbounded values.
func (u Unbounded) Cmp(other Unbounded) int {
	return u.bigInt().Cmp(other.bigInt())
}

// ToCoin narrows back to a bounded Coin, reporting Underflow/Overflow.
func (u Unbounded) ToCoin() (Coin, error) {
	v := u.bigInt()
	if v.Sign() < 0 {
		return Coin{}, fmt.Errorf("%w: %s lovelace", ErrUnderflow, v.String())
	}
	if v.Cmp(bigFromUint64(MaxCoin)) > 0 {
		return Coin{}, fmt.Errorf("%w: %s lovelace", ErrOverflow, v.String())
	}
	return Coin{lovelace: v.Uint64()}, nil
}

// ToFractional is a lossless conversion into the rational tier.
func (u Unbounded) ToFractional() Fractional {
	return Fractional{r: new(big.Rat).SetInt(u.bigInt())}
}

func (u Unbounded) String() string {
	return u.bigInt().String()
}

// Fractional is an arbitrary-precision rational amount of lovelace, used
// for proportional distributions (reward/fee/refund splits) that must be
// rounded to an integer only once, at the very end, via banker's rounding.
type Fractional struct {
	r *big.Rat
}

// NewFractional builds num/den.
func NewFractional(num, den int64) Fractional {
	return Fractional{r: big.NewRat(num, den)}
}

func (f Fractional) rat() *big.Rat {
	if f.r == nil {
		return new(big.Rat)
	}
	return f.r
}

// Add returns f + other.
func (f Fractional) Add(other Fractional) Fractional {
	return Fractional{r: new(big.Rat).Add(f.rat(), other.rat())}
}

// Sub returns f - other.
func (f Fractional) Sub(other Fractional) Fractional {
	return Fractional{r: new(big.Rat).Sub(f.rat(), other.rat())}
}

// Mul returns f * other.
func (f Fractional) Mul(other Fractional) Fractional {
	return Fractional{r: new(big.Rat).Mul(f.rat(), other.rat())}
}

// MulInt scales f by an integer.
func (f Fractional) MulInt(factor int64) Fractional {
	return f.Mul(Fractional{r: new(big.Rat).SetInt64(factor)})
}

// Sign returns -1, 0 or 1.
func (f Fractional) Sign() int {
	return f.rat().Sign()
}

// Cmp compares two Fractional values.
func (f Fractional) Cmp(other Fractional) int {
	return f.rat().Cmp(other.rat())
}

// Floor truncates toward negative infinity, returning an Unbounded integer.
func (f Fractional) Floor() Unbounded {
	r := f.rat()
	q := new(big.Int)
	mod := new(big.Int)
	q.DivMod(r.Num(), r.Denom(), mod)
	// big.Int.DivMod is Euclidean (mod always >= 0), which already matches
	// floor division for a positive denominator.
	return Unbounded{v: q}
}

// ToCoin rounds to the nearest integer using banker's rounding (round
// half to even), then narrows to Coin.
func (f Fractional) ToCoin() (Coin, error) {
	u := f.ToUnboundedRounded()
	return u.ToCoin()
}

// ToUnboundedRounded rounds to the nearest integer using banker's rounding,
// without narrowing to the bounded Coin range.
func (f Fractional) ToUnboundedRounded() Unbounded {
	r := f.rat()
	num := r.Num()
	den := r.Denom()

	quotient := new(big.Int)
	remainder := new(big.Int)
	quotient.QuoRem(num, den, remainder)

	if remainder.Sign() == 0 {
		return Unbounded{v: quotient}
	}

	twiceRemainder := new(big.Int).Mul(remainder, big.NewInt(2))
	twiceRemainder.Abs(twiceRemainder)
	cmp := twiceRemainder.Cmp(den)

	roundAwayFromZero := cmp > 0
	if cmp == 0 {
		// Exact tie: round to even.
		roundAwayFromZero = quotient.Bit(0) == 1
	}

	if roundAwayFromZero {
		if num.Sign()*den.Sign() >= 0 {
			quotient.Add(quotient, big.NewInt(1))
		} else {
			quotient.Sub(quotient, big.NewInt(1))
		}
	}
	return Unbounded{v: quotient}
}

func (f Fractional) String() string {
	return f.rat().RatString()
}
