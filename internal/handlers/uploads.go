package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client the upload handler uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploads stores base64-encoded pitch decks in the shared bucket.
type Uploads struct {
	Client S3API
	Bucket string
}

func NewUploads(client S3API, bucket string) *Uploads {
	return &Uploads{Client: client, Bucket: bucket}
}

func (h *Uploads) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var in struct {
		FileName    string `json:"fileName"`
		FileContent string `json:"fileContent"`
		ContentType string `json:"contentType"`
	}
	if err := json.Unmarshal([]byte(req.Body), &in); err != nil {
		return msgResp(400, "Invalid request body")
	}
	if in.FileName == "" || in.FileContent == "" || in.ContentType == "" {
		return msgResp(400, "Missing required fields: fileName, fileContent, and contentType are required")
	}

	content, err := base64.StdEncoding.DecodeString(in.FileContent)
	if err != nil {
		return msgResp(400, "fileContent must be base64 encoded")
	}

	_, err = h.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.Bucket),
		Key:         aws.String(in.FileName),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(in.ContentType),
	})
	if err != nil {
		log.Printf("uploading %s: %v", in.FileName, err)
		return jsonResp(500, map[string]any{
			"message": "Error processing file",
			"error":   err.Error(),
		})
	}

	return jsonResp(200, map[string]any{
		"message":  "File uploaded successfully",
		"fileName": in.FileName,
		"fileUrl":  fmt.Sprintf("https://%s.s3.amazonaws.com/%s", h.Bucket, in.FileName),
	})
}
