package main

import (
	"context"
	"log"

	"backend/internal/authchallenge"
	"backend/internal/db"
	"backend/internal/mail"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := db.NewAWSConfig(context.Background())
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	h := authchallenge.NewCreator(mail.NewSESSender(cfg, db.OtpSenderAddress()))
	lambda.Start(h.Handle)
}
