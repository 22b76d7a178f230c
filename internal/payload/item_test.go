package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs(t *testing.T) {
	v, err := As[float64](New(3, 1.5))
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	_, err = As[float64](NullItem(4))
	assert.ErrorContains(t, err, "is null")

	_, err = As[string](New(5, 1.5))
	assert.ErrorContains(t, err, "holds float64, not string")
}

func TestTypeAccepts(t *testing.T) {
	assert.True(t, Number.Accepts(2.0))
	assert.False(t, Number.Accepts(2))
	assert.False(t, Number.Accepts(nil))
	assert.True(t, Any.Accepts(nil))
	assert.True(t, Any.Accepts("x"))
	assert.Equal(t, Type("float64"), Number)
	assert.Equal(t, Type("[]uint8"), Bytes)
}

func TestItemString(t *testing.T) {
	assert.Equal(t, "#7 <null>", NullItem(7).String())
	assert.Equal(t, "#2 hello", New(2, "hello").String())
}
