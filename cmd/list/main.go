// Package main powers the dashboard by listing the current user's cases.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/radview/imaging-case-portal/internal/authz"
	"github.com/radview/imaging-case-portal/internal/awsutil"
	"github.com/radview/imaging-case-portal/internal/config"
	"github.com/radview/imaging-case-portal/internal/ddb"
	"github.com/radview/imaging-case-portal/internal/httpx"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// App holds the application state, including configuration and AWS clients.
type App struct {
	env  config.Env
	repo *ddb.Repo
}

// handler lists case records for the authenticated user, newest first.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return httpx.Preflight()
	}

	sub, err := authz.FromAPIGWv2(req, a.env.DevBypassAuth)
	if err != nil {
		return httpx.Error(http.StatusUnauthorized, "missing user")
	}
	cases, err := a.repo.ListCasesByUser(ctx, sub, 100)
	if err != nil {
		log.Printf("list: query for %s failed: %v", sub, err)
		return httpx.Error(http.StatusInternalServerError, "db error")
	}
	return httpx.JSON(http.StatusOK, cases)
}

// main initializes the application and starts the Lambda handler.
func main() {
	env := config.MustLoad()
	cfg, _, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}
	app := &App{env: env, repo: &ddb.Repo{DB: dynamodb.NewFromConfig(cfg), Table: env.Table}}
	lambda.Start(app.handler)
}
