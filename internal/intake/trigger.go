package intake

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/radview/imaging-case-portal/internal/models"
)

// ErrNoFilename is returned when a trigger body was supplied but no usable
// filename could be extracted from any recognized shape.
var ErrNoFilename = errors.New("no usable filename in trigger payload")

// TriggerKind tags which payload shape a trigger was normalized from.
type TriggerKind int

// Recognized trigger shapes.
const (
	KindScan    TriggerKind = iota // empty body: bulk bucket scan
	KindDirect                     // {fileName, bucketName, userId?, source?}
	KindRecord                     // storage event: {record: {...}}
	KindRecords                    // storage event: {Records: [{...}]}
)

// Trigger is the canonical normalized form of every payload shape the
// intake function accepts.
type Trigger struct {
	Kind     TriggerKind
	FileName string
	Bucket   string
	UserID   string
	Source   models.Source // optional caller override, usually empty
}

// directPayload is the webhook/manual-trigger shape.
type directPayload struct {
	FileName   string `json:"fileName"`
	BucketName string `json:"bucketName"`
	UserID     string `json:"userId"`
	Source     string `json:"source"`
}

// eventRecord is one storage-event object notification.
type eventRecord struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	BucketID string `json:"bucket_id"`
}

// eventEnvelope covers both storage-event shapes.
type eventEnvelope struct {
	Record  *eventRecord  `json:"record"`
	Records []eventRecord `json:"Records"`
}

// ParseTrigger normalizes a request body into a Trigger. An empty body means
// a bulk scan; a non-empty body must yield a filename from one of the
// recognized shapes or ErrNoFilename is returned.
func ParseTrigger(body string) (Trigger, error) {
	if strings.TrimSpace(body) == "" {
		return Trigger{Kind: KindScan}, nil
	}

	var direct directPayload
	if err := json.Unmarshal([]byte(body), &direct); err == nil && direct.FileName != "" {
		return Trigger{
			Kind:     KindDirect,
			FileName: direct.FileName,
			Bucket:   direct.BucketName,
			UserID:   direct.UserID,
			Source:   models.Source(direct.Source),
		}, nil
	}

	var env eventEnvelope
	if err := json.Unmarshal([]byte(body), &env); err == nil {
		if env.Record != nil {
			if t, ok := fromRecord(*env.Record, KindRecord); ok {
				return t, nil
			}
		}
		if len(env.Records) > 0 {
			if t, ok := fromRecord(env.Records[0], KindRecords); ok {
				return t, nil
			}
		}
	}

	return Trigger{}, ErrNoFilename
}

func fromRecord(rec eventRecord, kind TriggerKind) (Trigger, bool) {
	name := rec.Name
	if name == "" {
		name = rec.Key
	}
	if name == "" {
		return Trigger{}, false
	}
	return Trigger{Kind: kind, FileName: name, Bucket: rec.BucketID}, true
}
