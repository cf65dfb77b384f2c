// Package main runs the trial sweeper: it expires overdue subscription
// trials and assembles the threshold-day notification list.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/radview/imaging-case-portal/internal/awsutil"
	"github.com/radview/imaging-case-portal/internal/config"
	"github.com/radview/imaging-case-portal/internal/ddb"
	"github.com/radview/imaging-case-portal/internal/httpx"
	"github.com/radview/imaging-case-portal/internal/trial"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	env     config.Env
	sweeper *trial.Sweeper
}

func main() {
	env := config.MustLoad()
	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}
	app := &App{
		env: env,
		sweeper: &trial.Sweeper{
			Store: &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.Table},
		},
	}
	lambda.Start(app.handler)
}

// handler runs one sweep pass against the current time.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return httpx.Preflight()
	}

	sum, err := a.sweeper.Sweep(ctx, time.Now())
	if err != nil {
		log.Printf("sweeper: sweep failed: %v", err)
		return httpx.JSON(http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"success": false,
		})
	}
	log.Printf("sweeper: expiring=%d expired_updated=%d notifications=%d",
		sum.ExpiringTrials, sum.ExpiredTrialsUpdated, sum.NotificationsSent)
	return httpx.JSON(http.StatusOK, sum)
}
