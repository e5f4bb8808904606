package main

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/blobstore"
	"github.com/hupe1980/tskit/blobstore/minio"
	"github.com/hupe1980/tskit/blobstore/s3"
)

// location is a file argument: a local path, s3://bucket/key or
// minio://bucket/key.
type location struct {
	raw    string
	scheme string
	bucket string
	name   string
}

func parseLocation(raw string) (location, error) {
	if !strings.Contains(raw, "://") {
		return location{raw: raw, name: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return location{}, fmt.Errorf("parsing %s: %w", raw, err)
	}
	switch u.Scheme {
	case "s3", "minio":
	case "file":
		return location{raw: raw, name: u.Path}, nil
	default:
		return location{}, fmt.Errorf("unsupported scheme %q in %s", u.Scheme, raw)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || name == "" {
		return location{}, fmt.Errorf("%s: want %s://bucket/key", raw, u.Scheme)
	}
	return location{raw: raw, scheme: u.Scheme, bucket: u.Host, name: name}, nil
}

func (l location) local() bool { return l.scheme == "" }

// base is the last path element of the location.
func (l location) base() string {
	if l.local() {
		return filepath.Base(l.name)
	}
	return path.Base(l.name)
}

func (l location) String() string { return l.raw }

// store opens the blob store holding l and returns the name of l inside it.
func (l location) store(ctx context.Context, cfg Config) (blobstore.BlobStore, string, error) {
	switch l.scheme {
	case "s3":
		var opts []s3.Option
		if cfg.Storage.S3.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Storage.S3.Region))
		}
		if cfg.Storage.S3.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Storage.S3.Endpoint))
		}
		st, err := s3.New(ctx, l.bucket, opts...)
		if err != nil {
			return nil, "", err
		}
		return st, l.name, nil
	case "minio":
		m := cfg.Storage.Minio
		if m.Endpoint == "" {
			return nil, "", fmt.Errorf("%s: storage.minio.endpoint is not configured", l.raw)
		}
		st, err := minio.Dial(m.Endpoint, m.AccessKey, m.SecretKey, m.Secure, l.bucket, "")
		if err != nil {
			return nil, "", err
		}
		return st, l.name, nil
	}
	return blobstore.NewLocalStore(filepath.Dir(l.name)), filepath.Base(l.name), nil
}

func (l location) loadTables(ctx context.Context, cfg Config, opts ...tskit.Option) (*tskit.TableCollection, error) {
	if l.local() {
		return tskit.LoadTableCollection(l.name, opts...)
	}
	st, name, err := l.store(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return tskit.LoadTableCollectionFrom(ctx, st, name, opts...)
}

func (l location) loadTreeSequence(ctx context.Context, cfg Config, opts ...tskit.Option) (*tskit.TreeSequence, error) {
	if l.local() {
		return tskit.LoadTreeSequence(l.name, tskit.TreeSequenceBuildIndexes, opts...)
	}
	st, name, err := l.store(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return tskit.LoadTreeSequenceFrom(ctx, st, name, tskit.TreeSequenceBuildIndexes, opts...)
}

func (l location) dump(ctx context.Context, cfg Config, tables *tskit.TableCollection, opts tskit.DumpOptions) error {
	if l.local() {
		return tables.Dump(l.name, opts)
	}
	st, name, err := l.store(ctx, cfg)
	if err != nil {
		return err
	}
	return tables.DumpTo(ctx, st, name, opts)
}
