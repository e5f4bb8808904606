// Package fs abstracts the filesystem calls made by the local blob store so
// tests can inject write, sync and close failures.
//
// Production code uses Default:
//
//	f, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
//
// Tests wrap it:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".trees", fs.Fault{FailAfterBytes: 128})
package fs
