package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/radview/imaging-case-portal/internal/ddb"
	"github.com/radview/imaging-case-portal/internal/models"
	"github.com/radview/imaging-case-portal/internal/s3io"
	"github.com/radview/imaging-case-portal/internal/validate"
)

// CaseStore is the slice of the repository the pipeline needs.
type CaseStore interface {
	FindCaseByPath(ctx context.Context, storagePath string) (*models.Case, error)
	PutCaseOnce(ctx context.Context, c models.Case) error
}

// Invoker chains per-file processing to the configured processor function.
type Invoker interface {
	Invoke(ctx context.Context, fileName, bucket, userID string) error
}

// ScanSummary reports one bulk scan pass.
type ScanSummary struct {
	TotalFiles     int `json:"totalFiles"`
	ProcessedCount int `json:"processedCount"`
}

// Processor runs the intake pipeline. Rand, Now, and NewID are injectable so
// tests get deterministic records.
type Processor struct {
	Store CaseStore
	Rand  *rand.Rand
	Now   func() time.Time
	NewID func() string
}

// ProcessFile handles one upload end to end: eligibility, duplicate check,
// classification, record build, conditional insert. It returns the created
// case, or (nil, nil) when the file was skipped (ineligible extension or
// already recorded). Errors other than a failed lookup are insert failures
// and are fatal to the invocation.
func (p *Processor) ProcessFile(ctx context.Context, t Trigger) (*models.Case, error) {
	if !validate.EligibleImage(t.FileName) {
		return nil, nil
	}

	if _, err := p.Store.FindCaseByPath(ctx, t.FileName); err == nil {
		return nil, nil // already recorded
	} else if !errors.Is(err, ddb.ErrNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", t.FileName, err)
	}

	source, owner := t.Source, t.UserID
	if source != models.SourceManual && source != models.SourceSystem {
		source, owner = ClassifySource(t.FileName, t.UserID)
	}

	c := p.buildCase(t.FileName, source, owner)
	if err := p.Store.PutCaseOnce(ctx, c); err != nil {
		if errors.Is(err, ddb.ErrAlreadyExists) {
			// Lost a race with a concurrent trigger; the store-level
			// uniqueness guard makes this a no-op instead of a duplicate.
			log.Printf("intake: %s already recorded, skipping", t.FileName)
			return nil, nil
		}
		return nil, fmt.Errorf("insert %s: %w", t.FileName, err)
	}
	return &c, nil
}

// buildCase assembles a new case record with placeholder analysis values.
func (p *Processor) buildCase(fileName string, source models.Source, owner string) models.Case {
	a := MockAnalysis(p.Rand, source)
	id := p.NewID()
	now := p.Now().UTC().Format(time.RFC3339)
	pk, sk := ddb.CaseKeys(fileName)

	c := models.Case{
		PK: pk, SK: sk,
		CaseID:      id,
		ImageName:   fileName,
		StoragePath: fileName,
		PatientName: a.PatientName,
		PatientAge:  a.PatientAge,
		Modality:    a.Modality,
		BodyPart:    a.BodyPart,
		Findings:    a.Findings,
		Confidence:  a.Confidence,
		Severity:    a.Severity,
		Priority:    a.Priority,
		Status:      models.StatusOpen,
		Source:      source,
		UserID:      owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if owner != "" {
		gpk, _ := ddb.UserKeys(owner, "")
		c.GSI1PK = gpk
		c.GSI1SK = "CASE#" + id
	}
	return c
}

// ScanBucket lists the bucket (newest first, one page) and processes every
// object that lacks a case record. When an Invoker is configured the
// per-file work is chained to the processor function; otherwise it runs
// inline. Lookup failures skip the object and the scan continues; a failed
// insert or chained invocation aborts the pass.
func (p *Processor) ScanBucket(ctx context.Context, lister s3io.Lister, bucket string, inv Invoker) (ScanSummary, error) {
	objs, err := s3io.ListNewest(ctx, lister, bucket)
	if err != nil {
		return ScanSummary{}, fmt.Errorf("list bucket %s: %w", bucket, err)
	}

	sum := ScanSummary{TotalFiles: len(objs)}
	for _, obj := range objs {
		_, err := p.Store.FindCaseByPath(ctx, obj.Name)
		if err == nil {
			continue // already recorded
		}
		if !errors.Is(err, ddb.ErrNotFound) {
			log.Printf("intake: lookup %s failed, skipping: %v", obj.Name, err)
			continue
		}
		if !validate.EligibleImage(obj.Name) {
			continue
		}

		// Dashboard uploads land under a user prefix; carry the owner into
		// classification.
		owner, _ := s3io.ParseUploadKey(obj.Name)
		t := Trigger{Kind: KindDirect, FileName: obj.Name, Bucket: bucket, UserID: owner}

		if inv != nil {
			if err := inv.Invoke(ctx, obj.Name, bucket, owner); err != nil {
				return sum, fmt.Errorf("chain %s: %w", obj.Name, err)
			}
			sum.ProcessedCount++
			continue
		}
		created, err := p.ProcessFile(ctx, t)
		if err != nil {
			return sum, err
		}
		if created != nil {
			log.Printf("intake: created case %s for %s source=%s", created.CaseID, obj.Name, created.Source)
			sum.ProcessedCount++
		}
	}
	return sum, nil
}
