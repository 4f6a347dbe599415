package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/saltsearch/blobstore"
	miniostore "github.com/hupe1980/saltsearch/blobstore/minio"
	s3store "github.com/hupe1980/saltsearch/blobstore/s3"
	"github.com/hupe1980/saltsearch/stats"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// store is an opened blob store plus what the run index needs.
type store struct {
	blobstore.BlobStore

	uri    string
	awsCfg *aws.Config
}

// location is a parsed -store value.
type location struct {
	scheme   string // "", "s3" or "minio"
	host     string
	bucket   string
	prefix   string
	insecure bool
	path     string
}

func parseLocation(raw string) (location, error) {
	if !strings.Contains(raw, "://") {
		return location{path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return location{}, fmt.Errorf("-store: %w", err)
	}
	rest := strings.Trim(u.Path, "/")

	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return location{}, fmt.Errorf("-store %q: missing bucket", raw)
		}
		return location{scheme: "s3", bucket: u.Host, prefix: rest}, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if u.Host == "" || bucket == "" {
			return location{}, fmt.Errorf("-store %q: want minio://host:port/bucket/prefix", raw)
		}
		return location{
			scheme:   "minio",
			host:     u.Host,
			bucket:   bucket,
			prefix:   prefix,
			insecure: u.Query().Get("insecure") == "true",
		}, nil
	default:
		return location{}, fmt.Errorf("-store %q: unsupported scheme %q", raw, u.Scheme)
	}
}

func openStore(ctx context.Context, raw string) (*store, error) {
	loc, err := parseLocation(raw)
	if err != nil {
		return nil, err
	}

	switch loc.scheme {
	case "s3":
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := awss3.NewFromConfig(awsCfg)
		return &store{
			BlobStore: s3store.NewStore(client, loc.bucket, loc.prefix),
			uri:       raw,
			awsCfg:    &awsCfg,
		}, nil

	case "minio":
		client, err := minio.New(loc.host, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: !loc.insecure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return &store{
			BlobStore: miniostore.NewStore(client, loc.bucket, loc.prefix),
			uri:       raw,
		}, nil

	default:
		return &store{
			BlobStore: blobstore.NewLocalStore(loc.path),
			uri:       loc.path,
		}, nil
	}
}

var errRunIndexNeedsS3 = errors.New("-run-index requires an s3:// store")

// recordRun catalogues the published report in DynamoDB.
func (s *store) recordRun(ctx context.Context, table, runID, reportName string, coll *stats.Collection) error {
	if s.awsCfg == nil {
		return errRunIndexNeedsS3
	}
	if runID == "" {
		runID = time.Now().UTC().Format("20060102T150405Z")
	}

	rec := s3store.RunRecord{
		RunID:     runID,
		ReportKey: reportName,
		Rows:      rowCount(coll),
		CreatedAt: time.Now().UTC(),
	}
	if best, ok := coll.Best(); ok {
		rec.BestSpeedup = best.Speedup
	}

	idx := s3store.NewRunIndex(dynamodb.NewFromConfig(*s.awsCfg), table, s.uri)
	return idx.Record(ctx, rec)
}
