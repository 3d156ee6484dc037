package registry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	calls := 0
	r, err := New(
		Descriptor{Name: "cpu", Update: func() { calls++ }},
		Descriptor{Name: "memory", Update: func() {}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"cpu", "memory"}, r.Names())

	update, ok := r.Lookup("cpu")
	require.True(t, ok)
	update()
	assert.Equal(t, 1, calls)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Descriptor{Name: "", Update: func() {}})
	assert.Error(t, err)

	_, err = New(Descriptor{Name: "cpu", Update: func() {}}, Descriptor{Name: "cpu", Update: func() {}})
	assert.Error(t, err)
}

func TestLookup_CaseSensitive(t *testing.T) {
	r, err := New(Descriptor{Name: "cpu", Update: func() {}})
	require.NoError(t, err)

	_, ok := r.Lookup("CPU")
	assert.False(t, ok)
	_, ok = r.Lookup("cpu ")
	assert.False(t, ok)
}

func TestNames_ReturnsCopy(t *testing.T) {
	r, err := New(Descriptor{Name: "cpu", Update: func() {}})
	require.NoError(t, err)

	names := r.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"cpu"}, r.Names())
}

func TestShow(t *testing.T) {
	r, err := New(
		Descriptor{Name: "cpu", Update: func() {}},
		Descriptor{Name: "memory", Update: func() {}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	r.Show(&buf)
	assert.Equal(t, "Available metrics:\n  - cpu\n  - memory\n", buf.String())
}
