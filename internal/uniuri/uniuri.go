package uniuri

import (
	"crypto/rand"
	"io"
)

const (
	// StdLen gives about 95 bits of entropy with StdChars.
	StdLen = 16
	// UUIDLen gives about 119 bits of entropy with StdChars, close to a UUIDv4.
	UUIDLen = 20

	chunkLen = 64
)

// StdChars are the characters of generated ids.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") //nolint:gochecknoglobals

// New returns an id of StdLen characters.
func New() string {
	return NewLenChars(StdLen, StdChars)
}

// NewLen returns an id of length characters.
func NewLen(length int) string {
	return NewLenChars(length, StdChars)
}

// NewLenChars returns an id of length characters taken from chars, which
// must hold between 2 and 256 characters. It panics if the system random
// source fails.
func NewLenChars(length int, chars []byte) string {
	out, err := generate(rand.Reader, length, chars)
	if err != nil {
		panic("uniuri: " + err.Error())
	}

	return string(out)
}

// generate draws bytes from r and maps them onto chars. Bytes at or above the
// largest multiple of len(chars) are dropped, so every character is equally
// likely.
func generate(r io.Reader, length int, chars []byte) ([]byte, error) {
	if length <= 0 {
		return nil, nil
	}

	n := len(chars)
	if n < 2 || n > 256 {
		panic("uniuri: wrong charset length for NewLenChars")
	}

	limit := 256 - (256 % n)
	out := make([]byte, 0, length)
	buf := make([]byte, chunkLen)

	for len(out) < length {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return out, nil
}
