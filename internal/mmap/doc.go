// Package mmap provides read-only memory-mapped file access.
//
// Tree sequence files are decoded straight from the mapping, so loading a
// file does not first copy it through a read buffer.
//
//	m, err := mmap.Open("chr1.trees")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// On Unix the mapping uses mmap(2) with a sequential madvise(2) hint. On
// Windows it uses CreateFileMapping/MapViewOfFile.
//
// Close is idempotent. Slices returned by Bytes are invalid once Close
// returns.
package mmap
