package intake

import (
	"errors"
	"testing"
)

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind TriggerKind
		wantFile string
		wantUser string
		wantErr  error
	}{
		{
			name:     "empty body is a scan",
			body:     "",
			wantKind: KindScan,
		},
		{
			name:     "whitespace body is a scan",
			body:     "  \n ",
			wantKind: KindScan,
		},
		{
			name:     "direct payload",
			body:     `{"fileName":"scan.dcm","bucketName":"images","userId":"u1"}`,
			wantKind: KindDirect,
			wantFile: "scan.dcm",
			wantUser: "u1",
		},
		{
			name:     "storage event record",
			body:     `{"record":{"name":"scan.png","bucket_id":"images"}}`,
			wantKind: KindRecord,
			wantFile: "scan.png",
		},
		{
			name:     "storage event records array",
			body:     `{"Records":[{"key":"first.dcm"},{"key":"second.dcm"}]}`,
			wantKind: KindRecords,
			wantFile: "first.dcm",
		},
		{
			name:    "object with no recognizable filename",
			body:    `{"something":"else"}`,
			wantErr: ErrNoFilename,
		},
		{
			name:    "record without a name",
			body:    `{"record":{"bucket_id":"images"}}`,
			wantErr: ErrNoFilename,
		},
		{
			name:    "not json at all",
			body:    "not-json",
			wantErr: ErrNoFilename,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trig, err := ParseTrigger(tt.body)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if trig.Kind != tt.wantKind {
				t.Errorf("kind = %d, want %d", trig.Kind, tt.wantKind)
			}
			if trig.FileName != tt.wantFile {
				t.Errorf("fileName = %q, want %q", trig.FileName, tt.wantFile)
			}
			if trig.UserID != tt.wantUser {
				t.Errorf("userID = %q, want %q", trig.UserID, tt.wantUser)
			}
		})
	}
}
