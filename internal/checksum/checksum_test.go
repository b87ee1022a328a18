package checksum_test

import (
	"testing"

	"github.com/flowfcs/fcs/internal/checksum"
	"github.com/stretchr/testify/assert"
)

func TestSum64IsDeterministic(t *testing.T) {
	a := checksum.Sum64([]byte("hello"))
	b := checksum.Sum64([]byte("hello"))
	assert.Equal(t, a, b)
}

func TestSum64DiffersOnDifferentInput(t *testing.T) {
	a := checksum.Sum64([]byte("hello"))
	b := checksum.Sum64([]byte("world"))
	assert.NotEqual(t, a, b)
}

func TestDigestMatchesConcatenatedSum(t *testing.T) {
	d := checksum.New()
	d.WriteString("foo")
	d.WriteString("bar")

	assert.Equal(t, checksum.Sum64([]byte("foobar")), d.Sum64())
}

func TestDigestIsOrderSensitive(t *testing.T) {
	d1 := checksum.New()
	d1.WriteString("foo")
	d1.WriteString("bar")

	d2 := checksum.New()
	d2.WriteString("bar")
	d2.WriteString("foo")

	assert.NotEqual(t, d1.Sum64(), d2.Sum64())
}
