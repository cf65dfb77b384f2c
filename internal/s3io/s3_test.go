package s3io

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type stubLister struct {
	in  *s3.ListObjectsV2Input
	out *s3.ListObjectsV2Output
}

func (s *stubLister) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	s.in = params
	return s.out, nil
}

func TestListNewestSortsAndCaps(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	ts := func(d time.Duration) *time.Time { v := base.Add(d); return &v }
	stub := &stubLister{out: &s3.ListObjectsV2Output{Contents: []s3types.Object{
		{Key: aws.String("old.dcm"), LastModified: ts(0)},
		{Key: aws.String("newest.dcm"), LastModified: ts(2 * time.Hour)},
		{Key: aws.String("middle.dcm"), LastModified: ts(time.Hour)},
	}}}

	objs, err := ListNewest(context.Background(), stub, "images")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"newest.dcm", "middle.dcm", "old.dcm"}
	for i, w := range want {
		if objs[i].Name != w {
			t.Errorf("objs[%d] = %q, want %q", i, objs[i].Name, w)
		}
	}
	if stub.in.MaxKeys == nil || *stub.in.MaxKeys != ScanPageSize {
		t.Errorf("MaxKeys = %v, want %d", stub.in.MaxKeys, ScanPageSize)
	}
}

func TestUploadKeys(t *testing.T) {
	key := BuildUploadKey("user-1", "01J", "Chest Scan.DCM")
	if key != "uploads/user-1/01J.dcm" {
		t.Errorf("BuildUploadKey = %q", key)
	}
	user, ok := ParseUploadKey(key)
	if !ok || user != "user-1" {
		t.Errorf("ParseUploadKey(%q) = %q, %v", key, user, ok)
	}
	for _, bad := range []string{"other/user-1/x.dcm", "uploads//x.dcm", "x.dcm", "uploads/user-1/a/b.dcm"} {
		if _, ok := ParseUploadKey(bad); ok {
			t.Errorf("ParseUploadKey(%q) accepted", bad)
		}
	}
}
