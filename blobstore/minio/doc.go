// Package minio implements blobstore.BlobStore with the MinIO client, for
// MinIO and other S3-compatible services such as Ceph or Garage that are
// run without an AWS account.
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "trees", "runs/")
//	ts, err := tskit.LoadTreeSequenceFrom(ctx, store, "chr1.trees", 0)
package minio
