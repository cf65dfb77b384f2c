// Package main runs the intake classifier: it turns uploaded bucket objects
// into case records, either one file per webhook trigger or a whole bucket
// per scan trigger.
package main

import (
	"context"
	"log"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/radview/imaging-case-portal/internal/awsutil"
	"github.com/radview/imaging-case-portal/internal/config"
	"github.com/radview/imaging-case-portal/internal/ddb"
	"github.com/radview/imaging-case-portal/internal/httpx"
	"github.com/radview/imaging-case-portal/internal/intake"
	"github.com/radview/imaging-case-portal/internal/models"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	env     config.Env
	s3c     *s3.Client
	proc    *intake.Processor
	invoker intake.Invoker
}

// singleFileResponse is the response for a single-file trigger.
type singleFileResponse struct {
	Success bool          `json:"success"`
	Case    *models.Case  `json:"case"`
	Message string        `json:"message"`
	Source  models.Source `json:"source,omitempty"`
	UserID  string        `json:"userId,omitempty"`
}

// scanResponse is the response for a bulk scan trigger.
type scanResponse struct {
	Message        string `json:"message"`
	TotalFiles     int    `json:"totalFiles"`
	ProcessedCount int    `json:"processedCount"`
}

func main() {
	env := config.MustLoad()
	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}

	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true // localstack/dev friendliness
		}
	})

	app := &App{
		env: env,
		s3c: s3c,
		proc: &intake.Processor{
			Store: &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.Table},
			Rand:  rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
			Now:   time.Now,
			NewID: func() string { return ulid.Make().String() },
		},
	}
	if env.ProcessFn != "" {
		app.invoker = &intake.LambdaInvoker{
			Client:   awslambda.NewFromConfig(cfg),
			Function: env.ProcessFn,
		}
	}
	lambda.Start(app.handler)
}

// handler dispatches on trigger shape: OPTIONS preflight, single-file
// processing, or a bulk bucket scan when the body carries no file.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return httpx.Preflight()
	}

	trig, err := intake.ParseTrigger(req.Body)
	if err != nil {
		log.Printf("intake: bad trigger: %v", err)
		return httpx.Error(http.StatusBadRequest, err.Error())
	}

	if trig.Kind == intake.KindScan {
		return a.handleScan(ctx)
	}
	return a.handleSingle(ctx, trig)
}

// handleScan runs a bulk pass over the configured bucket.
func (a *App) handleScan(ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	sum, err := a.proc.ScanBucket(ctx, a.s3c, a.env.Bucket, a.invoker)
	if err != nil {
		log.Printf("intake: scan failed: %v", err)
		return httpx.Error(http.StatusInternalServerError, err.Error())
	}
	return httpx.JSON(http.StatusOK, scanResponse{
		Message:        "bucket scan complete",
		TotalFiles:     sum.TotalFiles,
		ProcessedCount: sum.ProcessedCount,
	})
}

// handleSingle processes one file named by the trigger payload.
func (a *App) handleSingle(ctx context.Context, trig intake.Trigger) (events.APIGatewayV2HTTPResponse, error) {
	created, err := a.proc.ProcessFile(ctx, trig)
	if err != nil {
		log.Printf("intake: process %s failed: %v", trig.FileName, err)
		return httpx.Error(http.StatusInternalServerError, err.Error())
	}
	if created == nil {
		return httpx.JSON(http.StatusOK, singleFileResponse{
			Success: true,
			Message: "file skipped: ineligible type or already recorded",
		})
	}
	return httpx.JSON(http.StatusOK, singleFileResponse{
		Success: true,
		Case:    created,
		Message: "case created",
		Source:  created.Source,
		UserID:  created.UserID,
	})
}
