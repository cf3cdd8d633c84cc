package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	b := NewBuffer(4)
	require.Equal(t, 4, b.Cap())
	require.NoError(t, b.WriteByte(1))
	n, err := b.Write([]byte{2, 3})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1, b.Available())

	n, err = b.Write([]byte{4, 5})
	require.Equal(t, ErrBufferFull, err)
	require.Zero(t, n)
	require.Equal(t, []byte{1, 2, 3}, b.Bytes())

	require.NoError(t, b.WriteByte(4))
	require.Equal(t, ErrBufferFull, b.WriteByte(5))
	require.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())

	b.SetByte(0, 9)
	b.Truncate(2)
	require.Equal(t, []byte{9, 2}, b.Bytes())
	require.Panics(t, func() { b.Truncate(3) })

	b.Reset()
	require.Zero(t, b.Len())
	require.Equal(t, 4, b.Available())
}
