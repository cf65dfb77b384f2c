package intake

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
)

// LambdaAPI is the slice of the Lambda client the invoker uses.
type LambdaAPI interface {
	Invoke(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
}

// LambdaInvoker chains per-file processing to another function by invoking
// it with a direct-shape trigger payload.
type LambdaInvoker struct {
	Client   LambdaAPI
	Function string
}

// Invoke calls the processor function synchronously so a failed insert in
// the chained function surfaces as a scan failure.
func (i *LambdaInvoker) Invoke(ctx context.Context, fileName, bucket, userID string) error {
	payload, err := json.Marshal(directPayload{
		FileName:   fileName,
		BucketName: bucket,
		UserID:     userID,
	})
	if err != nil {
		return err
	}
	out, err := i.Client.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName: aws.String(i.Function),
		Payload:      payload,
	})
	if err != nil {
		return err
	}
	if out.FunctionError != nil {
		return fmt.Errorf("processor function error: %s", *out.FunctionError)
	}
	return nil
}
