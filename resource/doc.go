// Package resource bounds the memory held by table collections and paces
// the IO of dump and load streams.
//
// A Controller is shared by any number of collections. Every row appended
// by the table engine reserves bytes with TryAcquireMemory; when the limit is
// reached the append fails and the binding reports an out-of-memory error.
// Freeing a collection returns its bytes:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   1 << 30,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	tables, err := tskit.New(1e6, tskit.WithResourceController(rc))
//
// The IO limiter is a token bucket (golang.org/x/time/rate). Batch commands
// use AcquireFile to bound how many files are processed concurrently.
package resource
