package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	initialized bool
	value       int
}

type counter struct {
	finalized int
	freed     int
	closed    []int32
}

func (c *counter) opts() []Option[stub] {
	return []Option[stub]{
		WithFree(func(*stub) { c.freed++ }),
		WithOnClose[stub](func(code int32) { c.closed = append(c.closed, code) }),
	}
}

func (c *counter) finalize(s *stub) int32 {
	c.finalized++
	s.initialized = false
	return 0
}

func initOK(s *stub) int32 {
	s.initialized = true
	return 0
}

func TestHandleFinalizesOnce(t *testing.T) {
	var c counter
	h, code := New(initOK, c.finalize, c.opts()...)
	require.Equal(t, int32(0), code)
	require.True(t, h.Ref().initialized)

	assert.Equal(t, int32(0), h.Close())
	assert.Equal(t, int32(0), h.Close())

	assert.Equal(t, 1, c.finalized)
	assert.Equal(t, 1, c.freed)
	assert.Equal(t, []int32{0}, c.closed)
	assert.False(t, h.Valid())
}

func TestHandleFailedInit(t *testing.T) {
	var c counter
	h, code := New(func(*stub) int32 { return -2 }, c.finalize, c.opts()...)
	assert.Nil(t, h)
	assert.Equal(t, int32(-2), code)
	assert.Zero(t, c.finalized)
	assert.Equal(t, 1, c.freed)
	assert.Empty(t, c.closed)
}

func TestHandleFinalizerCode(t *testing.T) {
	var c counter
	h, _ := New(initOK, func(*stub) int32 { return -7 }, c.opts()...)
	assert.Equal(t, int32(-7), h.Close())
	assert.Equal(t, []int32{-7}, c.closed)
	assert.Equal(t, 1, c.freed)
}

func TestHandleIntoRaw(t *testing.T) {
	var c counter
	h, _ := New(initOK, c.finalize, c.opts()...)
	h.Mut().value = 42

	raw := h.IntoRaw()
	assert.Equal(t, 42, raw.value)
	assert.False(t, h.Valid())

	assert.Equal(t, int32(0), h.Close())
	assert.Zero(t, c.finalized)
	assert.Zero(t, c.freed)

	assert.PanicsWithValue(t, releasedMessage, func() { h.Ref() })
	assert.PanicsWithValue(t, releasedMessage, func() { h.Mut() })
	assert.PanicsWithValue(t, releasedMessage, func() { h.IntoRaw() })

	owner := FromRaw(raw, c.finalize, c.opts()...)
	owner.Close()
	assert.Equal(t, 1, c.finalized)
	assert.False(t, raw.initialized)
}

func TestHandleGeneration(t *testing.T) {
	var c counter
	h, _ := New(initOK, c.finalize)
	defer h.Close()

	g := h.Generation()
	h.Ref()
	assert.Equal(t, g, h.Generation())
	h.Mut()
	assert.Equal(t, g+1, h.Generation())
}

func TestHandleBorrowed(t *testing.T) {
	var c counter
	owner, _ := New(initOK, c.finalize, c.opts()...)

	alias := Borrowed(owner.Ref())
	assert.True(t, alias.IsBorrowed())
	assert.False(t, owner.IsBorrowed())
	assert.Same(t, owner.Ref(), alias.Ref())

	assert.Equal(t, int32(0), alias.Close())
	assert.Zero(t, c.finalized)
	assert.True(t, owner.Ref().initialized)

	owner.Close()
	assert.Equal(t, 1, c.finalized)
}

func TestNilHandle(t *testing.T) {
	var h *Handle[stub]
	assert.False(t, h.Valid())
	assert.Equal(t, int32(0), h.Close())
	assert.PanicsWithValue(t, releasedMessage, func() { h.Ref() })
}
