// Package blobstore stores serialized tree sequences as immutable blobs.
//
// BlobStore is implemented by LocalStore (files, read through a memory
// mapping), MemoryStore (tests), and the s3 and minio subpackages. All
// implementations are safe for concurrent use.
//
//	store := blobstore.NewLocalStore("/data/trees")
//	err := tables.DumpTo(ctx, store, "chr1.trees", tskit.DumpOptions{})
//
// Remote blobs are read with ranged requests; ReadAll fetches a whole blob
// in one request and uses the mapped bytes directly when the blob supports
// Mappable.
package blobstore
