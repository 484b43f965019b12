package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
	"github.com/opol-agri/rsbsa-lambda/internal/container"
	"github.com/opol-agri/rsbsa-lambda/internal/router"
)

var adapter *chiadapter.ChiLambda

func init() {
	c, err := container.New(context.Background())
	if err != nil {
		config.Logger.WithError(err).Fatal("Failed to initialise application")
	}

	adapter = chiadapter.New(router.New(router.RouterConfig{
		UserHandler:        c.UserContainer.Handler,
		BeneficiaryHandler: c.BeneficiaryContainer.Handler,
		FarmProfileHandler: c.FarmProfileContainer.Handler,
		FarmParcelHandler:  c.FarmProfileContainer.ParcelContainer.Handler,
		EnrollmentHandler:  c.EnrollmentContainer.Handler,
	}))
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
