package latebind

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// pointerBits is the width of an address on the running target.
const pointerBits = bits.UintSize

type (
	// Codec encodes addresses before they are stored in a Cell, so a cached entry point
	// sitting in writable memory is never a directly usable address.
	//
	// Encode rotates left by secret%W and xors the secret; Decode xors then rotates right by the same amount.
	Codec struct {
		secret uintptr
	}
	// SecretSource supplies the process-local secret a Codec is keyed on.
	SecretSource interface {
		Secret() (uintptr, error)
	}
	// RandomSecret draws the secret from crypto/rand.
	RandomSecret struct{}
	// FixedSecret is a caller supplied secret, for tests and reproducible tooling.
	FixedSecret uintptr
)

// NewCodec create a Codec keyed on secret, a zero secret is rejected since it makes encoding the identity.
func NewCodec(secret uintptr) (c Codec, err error) {
	if secret == 0 {
		err = ErrWeakSecret
		return
	}
	c.secret = secret
	return
}

// NewCodecFrom create a Codec from a SecretSource.
func NewCodecFrom(src SecretSource) (c Codec, err error) {
	var s uintptr
	if s, err = src.Secret(); err != nil {
		return
	}
	return NewCodec(s)
}

func (c Codec) shift() int {
	return int(c.secret % pointerBits)
}

// Encode an address. The zero address is encoded like any other value.
func (c Codec) Encode(p uintptr) uintptr {
	return rotateRight(p, pointerBits-c.shift()) ^ c.secret
}

// Decode an encoded address.
func (c Codec) Decode(e uintptr) uintptr {
	return rotateRight(e^c.secret, c.shift())
}

func rotateRight(v uintptr, n int) uintptr {
	return uintptr(bits.RotateLeft(uint(v), -n))
}

func (RandomSecret) Secret() (uintptr, error) {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read process secret: %w", err)
		}
		// truncates to the address width on 32 bit targets
		if s := uintptr(binary.LittleEndian.Uint64(b[:])); s != 0 {
			return s, nil
		}
	}
}

func (f FixedSecret) Secret() (uintptr, error) {
	return uintptr(f), nil
}
