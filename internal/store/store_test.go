package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	require.NoError(t, m.Set(ctx, "a", []byte("hello")))

	value, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), value)
}

func TestMemoryGetMissing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	value, ok, err := m.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	require.NoError(t, m.Set(ctx, "a", []byte("x")))
	require.NoError(t, m.Delete(ctx, "a"))
	// Deleting again must not error.
	require.NoError(t, m.Delete(ctx, "a"))

	_, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)

	require.NoError(t, m.Set(ctx, "a", []byte("12345")))

	err := m.Set(ctx, "b", []byte("123456789"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)

	// Replacing an existing key only counts the delta.
	require.NoError(t, m.Set(ctx, "a", []byte("1234567890")))
	assert.Equal(t, int64(10), m.Used())
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	require.NoError(t, m.Set(ctx, "shell:one", []byte("1")))
	require.NoError(t, m.Set(ctx, "shell:two", []byte("2")))
	require.NoError(t, m.Set(ctx, "other:three", []byte("3")))

	keys, err := m.List(ctx, "shell:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"shell:one", "shell:two"}, keys)
}

func TestMemoryValueIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	original := []byte("abc")
	require.NoError(t, m.Set(ctx, "a", original))
	original[0] = 'z'

	value, _, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), value)

	value[0] = 'q'
	again, _, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := NewDisk(t.TempDir(), 0)
	require.NoError(t, err)

	require.NoError(t, d.Set(ctx, "shell:state:main", []byte(`{"cwd":"/"}`)))

	value, ok, err := d.Get(ctx, "shell:state:main")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"cwd":"/"}`), value)

	keys, err := d.List(ctx, "shell:state:")
	require.NoError(t, err)
	assert.Equal(t, []string{"shell:state:main"}, keys)

	require.NoError(t, d.Delete(ctx, "shell:state:main"))
	require.NoError(t, d.Delete(ctx, "shell:state:main"))

	_, ok, err = d.Get(ctx, "shell:state:main")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiskCapacity(t *testing.T) {
	ctx := context.Background()
	d, err := NewDisk(t.TempDir(), 8)
	require.NoError(t, err)

	require.NoError(t, d.Set(ctx, "a", []byte("1234")))

	err = d.Set(ctx, "b", []byte("56789"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)

	// Overwrites are measured against the quota without the old value.
	require.NoError(t, d.Set(ctx, "a", []byte("12345678")))
}

type countingRecorder struct {
	ops    map[string]int
	errors map[string]int
}

func (c *countingRecorder) RecordStoreOp(op string)    { c.ops[op]++ }
func (c *countingRecorder) RecordStoreError(op string) { c.errors[op]++ }

func TestInstrumented(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{ops: map[string]int{}, errors: map[string]int{}}
	s := Instrument(NewMemory(4), rec)

	require.NoError(t, s.Set(ctx, "a", []byte("ok")))
	_, _, _ = s.Get(ctx, "a")
	require.Error(t, s.Set(ctx, "b", []byte("too large")))

	assert.Equal(t, 2, rec.ops["set"])
	assert.Equal(t, 1, rec.ops["get"])
	assert.Equal(t, 1, rec.errors["set"])
}
