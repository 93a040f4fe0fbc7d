package main

import (
	"context"
	"log"

	"backend/internal/db"
	"backend/internal/handlers"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	cfg, err := db.NewAWSConfig(context.Background())
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	h := handlers.NewUploads(s3.NewFromConfig(cfg), db.PitchDecksBucketName())
	lambda.Start(h.Handle)
}
