package main

import (
	"context"
	"log"

	"backend/internal/db"
	"backend/internal/handlers"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	client, err := db.NewDynamoClient(context.Background())
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	h := handlers.NewMentors(client, db.MentorsTableName())
	lambda.Start(h.Handle)
}
