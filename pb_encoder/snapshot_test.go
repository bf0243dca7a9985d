package pb

import (
	"testing"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestSnapshotEncoding(t *testing.T) {
	encoder := &Protobuf{}

	t.Run("Preserves every field", func(t *testing.T) {
		want := &service.Snapshot{
			ID:       uuid.New(),
			Shape:    maze.Shape{3, 4},
			Walls:    []uint8{3, 3, 3, 1, 3, 3, 3, 1},
			Carved:   7,
			Done:     true,
			Position: maze.Coordinate{2, 0},
			Won:      true,
			Walk:     []maze.Coordinate{{0, 0}, {0, 1}, {1, 1}},
		}

		raw, err := encoder.MarshalSnapshot(want)
		require.NoError(t, err)

		got, err := encoder.UnmarshalSnapshot(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Omits defaults", func(t *testing.T) {
		raw, err := encoder.MarshalSnapshot(&service.Snapshot{})
		require.NoError(t, err)
		assert.Empty(t, raw)

		got, err := encoder.UnmarshalSnapshot(raw)
		require.NoError(t, err)
		assert.Equal(t, &service.Snapshot{}, got)
	})

	t.Run("Accepts unpacked repeated fields", func(t *testing.T) {
		var raw []byte
		for _, v := range []uint64{5, 6} {
			raw = protowire.AppendTag(raw, shapeField, protowire.VarintType)
			raw = protowire.AppendVarint(raw, v)
		}

		got, err := encoder.UnmarshalSnapshot(raw)
		require.NoError(t, err)
		assert.Equal(t, maze.Shape{5, 6}, got.Shape)
	})

	t.Run("Skips unknown fields", func(t *testing.T) {
		raw := protowire.AppendTag(nil, 42, protowire.BytesType)
		raw = protowire.AppendString(raw, "future")
		raw = protowire.AppendTag(raw, carvedField, protowire.VarintType)
		raw = protowire.AppendVarint(raw, 9)

		got, err := encoder.UnmarshalSnapshot(raw)
		require.NoError(t, err)
		assert.Equal(t, 9, got.Carved)
	})

	t.Run("Rejects malformed input", func(t *testing.T) {
		_, err := encoder.UnmarshalSnapshot([]byte{0x0a, 0x10, 'x'})
		assert.Error(t, err)

		raw := protowire.AppendTag(nil, idField, protowire.BytesType)
		raw = protowire.AppendString(raw, "not-a-uuid")
		_, err = encoder.UnmarshalSnapshot(raw)
		assert.Error(t, err)

		raw = protowire.AppendTag(nil, doneField, protowire.BytesType)
		raw = protowire.AppendBytes(raw, []byte{1})
		_, err = encoder.UnmarshalSnapshot(raw)
		assert.Error(t, err)
	})

	t.Run("Nil snapshot", func(t *testing.T) {
		_, err := encoder.MarshalSnapshot(nil)
		assert.Error(t, err)
	})
}
