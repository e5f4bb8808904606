// Package s3 implements blobstore.BlobStore on Amazon S3 and S3-compatible
// services.
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("trees/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	err = tables.DumpTo(ctx, store, "chr1.trees", tskit.DumpOptions{})
//
// Blobs are read with ranged GETs and written through the SDK upload
// manager, which switches to multipart uploads for large tree sequences.
// Small puts carry a CRC32C checksum that S3 verifies on receipt.
package s3
