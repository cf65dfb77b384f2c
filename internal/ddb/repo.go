// Package ddb provides a repository for case, subscription, and profile
// records in a single DynamoDB table.
package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/radview/imaging-case-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Index names on the table.
const (
	UserCasesIndex  = "GSI1"                   // GSI1PK=USER#<sub>, GSI1SK=CASE#<id>
	TrialStateIndex = "status-trial-end-index" // PK=status, SK=trial_end_date
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when a conditional insert hits an existing
// row. Callers treat it as the idempotent already-processed signal.
var ErrAlreadyExists = errors.New("record already exists")

// API is the slice of the DynamoDB client the repository uses. Tests
// substitute a fake.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Repo wraps a DynamoDB client and table name.
type Repo struct {
	DB    API
	Table string
}

// NowISO returns the current time in ISO8601 format.
func NowISO() string { return time.Now().UTC().Format(time.RFC3339) }

// CaseKeys constructs the keys for a case record. Keying by storage path is
// what makes the conditional insert enforce at most one case per upload.
func CaseKeys(storagePath string) (pk, sk string) {
	return fmt.Sprintf("PATH#%s", storagePath), "CASE"
}

// UserKeys constructs the keys for a user's subscription or profile item.
func UserKeys(userID, item string) (pk, sk string) {
	return fmt.Sprintf("USER#%s", userID), item
}

// FindCaseByPath looks up a case record by exact storage path. Returns
// ErrNotFound when no record matches.
func (r *Repo) FindCaseByPath(ctx context.Context, storagePath string) (*models.Case, error) {
	pk, sk := CaseKeys(storagePath)
	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.Table,
		Key:       itemKey(pk, sk),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	var c models.Case
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// PutCaseOnce inserts a case record, failing with ErrAlreadyExists when a
// record for the same storage path is already present.
func (r *Repo) PutCaseOnce(ctx context.Context, c models.Case) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return err
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.Table,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	var ccf *ddbtypes.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrAlreadyExists
	}
	return err
}

// ListCasesByUser returns up to limit case records owned by the user,
// newest first.
func (r *Repo) ListCasesByUser(ctx context.Context, userID string, limit int32) ([]models.Case, error) {
	pk, _ := UserKeys(userID, "")
	out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:              &r.Table,
		IndexName:              aws.String(UserCasesIndex),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: pk},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var cases []models.Case
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// queryTrials runs one range query against the trial-state index.
func (r *Repo) queryTrials(ctx context.Context, cond string, cutoff time.Time) ([]models.Subscription, error) {
	out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:              &r.Table,
		IndexName:              aws.String(TrialStateIndex),
		KeyConditionExpression: aws.String("#s = :s AND trial_end_date " + cond + " :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":s":      &ddbtypes.AttributeValueMemberS{Value: string(models.TrialActive)},
			":cutoff": &ddbtypes.AttributeValueMemberS{Value: cutoff.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return nil, err
	}
	var subs []models.Subscription
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// TrialsEndingBy returns active trials whose end date is at or before the
// cutoff (the sweeper's notification window).
func (r *Repo) TrialsEndingBy(ctx context.Context, cutoff time.Time) ([]models.Subscription, error) {
	return r.queryTrials(ctx, "<=", cutoff)
}

// TrialsExpiredBefore returns active trials whose end date is strictly
// before now.
func (r *Repo) TrialsExpiredBefore(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	return r.queryTrials(ctx, "<", now)
}

// MarkTrialExpired flips one subscription from trial_active to
// trial_expired. The status condition keeps a concurrent sweep from
// re-expiring an already transitioned row.
func (r *Repo) MarkTrialExpired(ctx context.Context, userID string) error {
	pk, sk := UserKeys(userID, "SUBSCRIPTION")
	_, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.Table,
		Key:                 itemKey(pk, sk),
		UpdateExpression:    aws.String("SET #s = :expired"),
		ConditionExpression: aws.String("#s = :active"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":expired": &ddbtypes.AttributeValueMemberS{Value: string(models.TrialExpired)},
			":active":  &ddbtypes.AttributeValueMemberS{Value: string(models.TrialActive)},
		},
	})
	var ccf *ddbtypes.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return nil // someone else already expired it
	}
	return err
}

// ProfileName returns the display name for a user, or "" when no profile
// item exists.
func (r *Repo) ProfileName(ctx context.Context, userID string) (string, error) {
	pk, sk := UserKeys(userID, "PROFILE")
	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.Table,
		Key:       itemKey(pk, sk),
	})
	if err != nil {
		return "", err
	}
	if out.Item == nil {
		return "", nil
	}
	var p models.Profile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return "", err
	}
	return p.FullName, nil
}

func itemKey(pk, sk string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"PK": &ddbtypes.AttributeValueMemberS{Value: pk},
		"SK": &ddbtypes.AttributeValueMemberS{Value: sk},
	}
}
