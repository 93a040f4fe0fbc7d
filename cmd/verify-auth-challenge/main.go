package main

import (
	"backend/internal/authchallenge"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	lambda.Start(authchallenge.Verify)
}
