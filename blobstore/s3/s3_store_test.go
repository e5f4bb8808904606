package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit/blobstore"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.HeadObjectOutput)
	return o, args.Error(1)
}

func (m *mockClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.GetObjectOutput)
	return o, args.Error(1)
}

func (m *mockClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.PutObjectOutput)
	return o, args.Error(1)
}

func (m *mockClient) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return o, args.Error(1)
}

func (m *mockClient) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return o, args.Error(1)
}

func (m *mockClient) UploadPart(ctx context.Context, in *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.UploadPartOutput)
	return o, args.Error(1)
}

func (m *mockClient) CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.CreateMultipartUploadOutput)
	return o, args.Error(1)
}

func (m *mockClient) CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.CompleteMultipartUploadOutput)
	return o, args.Error(1)
}

func (m *mockClient) AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*s3.AbortMultipartUploadOutput)
	return o, args.Error(1)
}

func TestStoreOpen(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", WithPrefix("prefix"))

	t.Run("not found", func(t *testing.T) {
		client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
			return *in.Bucket == "test-bucket" && *in.Key == "prefix/foo"
		})).Return(nil, &types.NotFound{}).Once()

		_, err := store.Open(context.Background(), "foo")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("found", func(t *testing.T) {
		client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
			return *in.Key == "prefix/bar"
		})).Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(100)}, nil).Once()

		blob, err := store.Open(context.Background(), "bar")
		require.NoError(t, err)
		assert.Equal(t, int64(100), blob.Size())
		assert.NoError(t, blob.Close())
	})

	client.AssertExpectations(t)
}

func TestStoreDelete(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", WithPrefix("prefix"))

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "prefix/del"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "prefix/gone"
	})).Return(nil, &types.NoSuchKey{}).Once()

	assert.NoError(t, store.Delete(context.Background(), "del"))
	assert.NoError(t, store.Delete(context.Background(), "gone"))
	client.AssertExpectations(t)
}

func TestStoreList(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", WithPrefix("prefix/"))

	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return *in.Prefix == "prefix/chr" && in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("token"),
		Contents: []types.Object{
			{Key: aws.String("prefix/chr2.trees")},
			{Key: aws.String("prefix/chr1/a.trees")},
		},
	}, nil).Once()
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken != nil && *in.ContinuationToken == "token"
	})).Return(&s3.ListObjectsV2Output{
		IsTruncated: aws.Bool(false),
		Contents:    []types.Object{{Key: aws.String("prefix/chr1.trees")}},
	}, nil).Once()

	names, err := store.List(context.Background(), "chr")
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1.trees", "chr1/a.trees", "chr2.trees"}, names)
	client.AssertExpectations(t)
}

func TestBlobReads(t *testing.T) {
	client := new(mockClient)
	blob := &s3Blob{client: client, bucket: "b", key: "k", size: 10}
	ctx := context.Background()

	ranged := func(r string) any {
		return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Bucket == "b" && *in.Key == "k" && *in.Range == r
		})
	}

	t.Run("read at", func(t *testing.T) {
		client.On("GetObject", mock.Anything, ranged("bytes=0-4")).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("hello")),
		}, nil).Once()

		buf := make([]byte, 5)
		n, err := blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "hello", string(buf))
	})

	t.Run("read at tail", func(t *testing.T) {
		client.On("GetObject", mock.Anything, ranged("bytes=8-9")).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("ld")),
		}, nil).Once()

		buf := make([]byte, 5)
		n, err := blob.ReadAt(ctx, buf, 8)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 2, n)
		assert.Equal(t, "ld", string(buf[:n]))

		_, err = blob.ReadAt(ctx, buf, 10)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("read range", func(t *testing.T) {
		client.On("GetObject", mock.Anything, ranged("bytes=2-6")).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("llo W")),
		}, nil).Once()

		rc, err := blob.ReadRange(ctx, 2, 5)
		require.NoError(t, err)
		defer rc.Close()
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "llo W", string(got))
	})

	client.AssertExpectations(t)
}

func TestStorePut(t *testing.T) {
	client := new(mockClient)
	store := NewStore(client, "test-bucket", WithPrefix("prefix"))
	data := []byte("tree sequence bytes")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Key == "prefix/small.trees" &&
			aws.ToString(in.ChecksumCRC32C) == checksumCRC32C(data) &&
			aws.ToInt64(in.ContentLength) == int64(len(data))
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Put(context.Background(), "small.trees", data))
	client.AssertExpectations(t)
}

func TestChecksumCRC32C(t *testing.T) {
	// CRC32C of "123456789" is 0xE3069283.
	assert.Equal(t, "4waSgw==", checksumCRC32C([]byte("123456789")))
}

func TestStoreCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("close uploads", func(t *testing.T) {
		client := new(mockClient)
		store := NewStore(client, "test-bucket", WithPrefix("prefix"))

		var body []byte
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Key == "prefix/new.trees" && in.ChecksumAlgorithm == types.ChecksumAlgorithmCrc32c
		})).Run(func(args mock.Arguments) {
			body, _ = io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		}).Return(&s3.PutObjectOutput{}, nil).Once()

		err := blobstore.Write(ctx, store, "new.trees", func(w io.Writer) error {
			_, err := w.Write([]byte("content"))
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, "content", string(body))
		client.AssertExpectations(t)
	})

	t.Run("abort skips upload", func(t *testing.T) {
		client := new(mockClient)
		store := NewStore(client, "test-bucket")
		boom := errors.New("boom")

		err := blobstore.Write(ctx, store, "broken.trees", func(w io.Writer) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})
}
