package stream_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memwire/memwire/stream"
	"github.com/memwire/memwire/transfer"
)

type record struct {
	Nonce uint64
	Tag   [4]byte
	Count uint32
}

func (record) ExplicitLayout() {}

var _ = transfer.MustRegister[record]()

func TestWriteRead(t *testing.T) {
	buffer := &bytes.Buffer{}

	written := record{Nonce: 7, Tag: [4]byte{'m', 'w', 'v', '1'}, Count: 3}
	require.NoError(t, stream.Write(buffer, &written))
	require.Equal(t, transfer.Size[record](), buffer.Len())

	var read record
	require.NoError(t, stream.Read(buffer, &read))
	require.Equal(t, written, read)
	require.Zero(t, buffer.Len())
}

func TestWriteReadSequence(t *testing.T) {
	buffer := &bytes.Buffer{}

	for i := uint64(0); i < 10; i++ {
		value := record{Nonce: i, Count: uint32(i) * 2}
		require.NoError(t, stream.Write(buffer, &value))
	}

	for i := uint64(0); i < 10; i++ {
		var value record
		require.NoError(t, stream.Read(buffer, &value))
		require.Equal(t, i, value.Nonce)
		require.EqualValues(t, i*2, value.Count)
	}
}

func TestReadShortStreamLeavesTargetUntouched(t *testing.T) {
	buffer := bytes.NewReader([]byte{1, 2, 3})

	target := record{Nonce: 42}
	require.Error(t, stream.Read(buffer, &target))
	require.Equal(t, record{Nonce: 42}, target)
}

func TestReadBytes(t *testing.T) {
	initialBytes := []byte{1, 2, 3, 4, 5}
	buffer := bytes.NewReader(initialBytes)

	readBytes, err := stream.ReadBytes(buffer, 5)
	require.NoError(t, err)
	require.EqualValues(t, initialBytes, readBytes)

	_, err = stream.ReadBytes(buffer, 1)
	require.Error(t, err)
}

func TestWriteBytes(t *testing.T) {
	buffer := &bytes.Buffer{}

	require.NoError(t, stream.WriteBytes(buffer, []byte{9, 8, 7}))
	require.Equal(t, []byte{9, 8, 7}, buffer.Bytes())
}
