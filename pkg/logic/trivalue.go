package logic

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidVector is returned when a bit pattern does not encode a valid
// tri-value vector.
var ErrInvalidVector = errors.New("invalid tri-value vector")

// MaxWidth is the largest supported vector width.
const MaxWidth = 32

// TriValue is a packed vector of three-valued (Kleene) logic elements.
// Each element occupies two interleaved bits: the bottom bit at the even
// position, the top bit at the odd position. The codes are 00 for OFF,
// 01 for UNKNOWN and 11 for ON; 10 is never a valid code.
type TriValue struct {
	bits  uint64
	width uint
}

// Canonical width-1 values.
var (
	TriOn      = TriValue{bits: 0b11, width: 1}
	TriOff     = TriValue{bits: 0b00, width: 1}
	TriUnknown = TriValue{bits: 0b01, width: 1}
)

// NewTriValue builds a tri-value vector of the given width from packed bits.
// The pattern is validated: no element may carry the 10 code and no bits may
// lie beyond the vector.
func NewTriValue(bits uint64, width uint) (TriValue, error) {
	if width == 0 || width > MaxWidth {
		return TriValue{}, errors.Wrapf(ErrInvalidVector, "unsupported width %d", width)
	}
	v := TriValue{bits: bits, width: width}
	if bits&^v.fullMask() != 0 {
		return TriValue{}, errors.Wrapf(ErrInvalidVector, "%#b: too many bits for width %d", bits, width)
	}
	bottom, top := v.decompose()
	if bad := ^bottom & top & v.interleaveMask(); bad != 0 {
		return TriValue{}, errors.Wrapf(ErrInvalidVector, "%#b: elements %v are 0b10", bits, bitPositions(bad))
	}
	return v, nil
}

// bitPositions lists the element indices of set bits in an interleave mask.
func bitPositions(mask uint64) []uint {
	var positions []uint
	for pos := uint(0); mask != 0; pos++ {
		if mask&1 != 0 {
			positions = append(positions, pos/2)
		}
		mask >>= 1
	}
	return positions
}

func (v TriValue) interleaveMask() uint64 {
	var mask uint64
	for i := uint(0); i < v.width; i++ {
		mask |= 0b01 << (2 * i)
	}
	return mask
}

func (v TriValue) fullMask() uint64 {
	return (1 << (2 * v.width)) - 1
}

// decompose splits the packed bits into the bottom and top bit planes, both
// aligned to the even positions.
func (v TriValue) decompose() (bottom, top uint64) {
	mask := v.interleaveMask()
	return v.bits & mask, (v.bits >> 1) & mask
}

// swapBits exchanges the top and bottom bit of every element.
func (v TriValue) swapBits() uint64 {
	bottom, top := v.decompose()
	return (bottom << 1) | top
}

// Width returns the number of elements in the vector.
func (v TriValue) Width() uint { return v.width }

// At returns the single element at the given position as a width-1 value.
func (v TriValue) At(i uint) TriValue {
	return TriValue{bits: (v.bits >> (2 * i)) & 0b11, width: 1}
}

// code returns the raw 2-bit code of the element at the given position.
func (v TriValue) code(i uint) uint8 {
	return uint8((v.bits >> (2 * i)) & 0b11)
}

// Not complements every element. UNKNOWN stays UNKNOWN, so Not is an
// involution over the whole domain.
func (v TriValue) Not() TriValue {
	return TriValue{bits: ^v.swapBits() & v.fullMask(), width: v.width}
}

// And is the element-wise Kleene conjunction.
// TODO: support combining vectors of different widths by padding the
// shorter one with UNKNOWN.
func (v TriValue) And(o TriValue) TriValue {
	if v.width != o.width {
		panic("logic: combining tri-value vectors of different widths")
	}
	return TriValue{bits: v.bits & o.bits, width: v.width}
}

// Or is the element-wise Kleene disjunction.
func (v TriValue) Or(o TriValue) TriValue {
	if v.width != o.width {
		panic("logic: combining tri-value vectors of different widths")
	}
	return TriValue{bits: v.bits | o.bits, width: v.width}
}

// Xor is the element-wise Kleene exclusive-or, derived from the identity
// a^b = (~a&b)|(a&~b).
func (v TriValue) Xor(o TriValue) TriValue {
	return v.Not().And(o).Or(v.And(o.Not()))
}

// Equal reports whether both vectors carry the same codes and width.
func (v TriValue) Equal(o TriValue) bool {
	return v.width == o.width && v.bits == o.bits
}

// String renders the vector with one rune per element: '0', '1', 'X', and
// '?' for a corrupted code.
func (v TriValue) String() string {
	var b strings.Builder
	for i := uint(0); i < v.width; i++ {
		b.WriteByte("0X?1"[v.code(i)])
	}
	return b.String()
}
