// Package s3io provides utilities for working with S3: bucket listing for the
// intake scanner and presigning upload URLs.
package s3io

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ScanPageSize caps how many objects one intake scan considers. Objects
// beyond the first page are picked up by later scans; multi-page listing is
// a documented limitation, not implemented.
const ScanPageSize = 100

// Object is one bucket entry as the scanner sees it.
type Object struct {
	Name      string
	CreatedAt time.Time
}

// Lister defines the S3 listing surface the scanner depends on.
type Lister interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// ListNewest returns up to ScanPageSize objects from the bucket, newest
// first. S3 lists lexicographically, so one page is fetched and re-sorted by
// LastModified.
func ListNewest(ctx context.Context, c Lister, bucket string) ([]Object, error) {
	out, err := c.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(ScanPageSize),
	})
	if err != nil {
		return nil, err
	}
	objs := make([]Object, 0, len(out.Contents))
	for _, o := range out.Contents {
		obj := Object{}
		if o.Key != nil {
			obj.Name = *o.Key
		}
		if o.LastModified != nil {
			obj.CreatedAt = *o.LastModified
		}
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].CreatedAt.After(objs[j].CreatedAt) })
	return objs, nil
}

// Presigner defines the interface for presigning S3 requests.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignPut generates a presigned URL for uploading an image to S3. The
// user metadata rides along so the intake indexer can attribute ownership.
func PresignPut(ctx context.Context, p Presigner, bucket, key, contentType string, meta map[string]string, ttl time.Duration) (string, time.Duration, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata:    meta,
	}
	req, err := p.PresignPutObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = ttl })
	if err != nil {
		return "", 0, err
	}
	return req.URL, ttl, nil
}
