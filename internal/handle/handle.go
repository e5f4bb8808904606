// Package handle owns heap structures managed through an init/finalize
// calling convention.
//
// A Handle has exactly one owner. Close runs the finalizer and then the free
// hook exactly once. IntoRaw hands the structure to a new owner without
// finalizing it. Any use of a handle after Close or IntoRaw panics.
package handle

import "sync/atomic"

const releasedMessage = "handle: use of released handle"

// Finalizer tears down the contents of a structure initialized by the
// matching init function. It returns a status code that is reported but
// cannot stop the release.
type Finalizer[T any] func(*T) int32

type options[T any] struct {
	free    func(*T)
	onClose func(code int32)
}

// Option configures a Handle.
type Option[T any] func(*options[T])

// WithFree sets a hook that runs after the finalizer, and after a failed
// init, to release the raw allocation.
func WithFree[T any](fn func(*T)) Option[T] {
	return func(o *options[T]) { o.free = fn }
}

// WithOnClose sets a hook that observes the finalizer's status code.
func WithOnClose[T any](fn func(code int32)) Option[T] {
	return func(o *options[T]) { o.onClose = fn }
}

// Handle is the single owner of a *T.
type Handle[T any] struct {
	ptr      *T
	finalize Finalizer[T]
	opts     options[T]
	gen      atomic.Uint64
	borrowed bool
}

// New allocates a zeroed T and runs init on it. A negative status from init
// releases the allocation without calling finalize and is returned as is.
func New[T any](init func(*T) int32, finalize Finalizer[T], opts ...Option[T]) (*Handle[T], int32) {
	var o options[T]
	for _, opt := range opts {
		opt(&o)
	}
	ptr := new(T)
	if code := init(ptr); code < 0 {
		if o.free != nil {
			o.free(ptr)
		}
		return nil, code
	}
	return &Handle[T]{ptr: ptr, finalize: finalize, opts: o}, 0
}

// FromRaw takes ownership of an already initialized structure.
func FromRaw[T any](ptr *T, finalize Finalizer[T], opts ...Option[T]) *Handle[T] {
	var o options[T]
	for _, opt := range opts {
		opt(&o)
	}
	return &Handle[T]{ptr: ptr, finalize: finalize, opts: o}
}

// Borrowed returns a handle aliasing ptr that never finalizes it.
func Borrowed[T any](ptr *T) *Handle[T] {
	return &Handle[T]{ptr: ptr, borrowed: true}
}

func (h *Handle[T]) live() *T {
	if h == nil || h.ptr == nil {
		panic(releasedMessage)
	}
	return h.ptr
}

// Ref returns the structure for reading.
func (h *Handle[T]) Ref() *T { return h.live() }

// Mut returns the structure for writing and invalidates views taken at an
// earlier generation.
func (h *Handle[T]) Mut() *T {
	p := h.live()
	h.gen.Add(1)
	return p
}

// Generation counts calls to Mut.
func (h *Handle[T]) Generation() uint64 {
	h.live()
	return h.gen.Load()
}

// Valid reports whether the handle still owns or aliases a structure.
func (h *Handle[T]) Valid() bool { return h != nil && h.ptr != nil }

// IsBorrowed reports whether the handle is a non-owning alias.
func (h *Handle[T]) IsBorrowed() bool { return h.live() != nil && h.borrowed }

// IntoRaw gives up ownership. The returned structure is no longer finalized
// by this handle, which becomes unusable.
func (h *Handle[T]) IntoRaw() *T {
	p := h.live()
	h.ptr = nil
	h.gen.Add(1)
	return p
}

// Close finalizes and frees the structure. It is a no-op on a handle that
// was already closed or consumed, and on borrowed handles it only detaches.
func (h *Handle[T]) Close() int32 {
	if h == nil || h.ptr == nil {
		return 0
	}
	p := h.ptr
	h.ptr = nil
	h.gen.Add(1)
	if h.borrowed {
		return 0
	}
	var code int32
	if h.finalize != nil {
		code = h.finalize(p)
	}
	if h.opts.free != nil {
		h.opts.free(p)
	}
	if h.opts.onClose != nil {
		h.opts.onClose(code)
	}
	return code
}
