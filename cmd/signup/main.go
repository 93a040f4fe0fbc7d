package main

import (
	"context"
	"log"

	"backend/internal/db"
	"backend/internal/handlers"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

func main() {
	cfg, err := db.NewAWSConfig(context.Background())
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	h := handlers.NewSignup(
		cognitoidentityprovider.NewFromConfig(cfg),
		db.UserPoolID(),
		db.UserPoolClientID(),
	)
	lambda.Start(h.Handle)
}
