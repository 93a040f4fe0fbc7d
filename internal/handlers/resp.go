package handlers

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

func jsonResp(status int, v any) (events.APIGatewayProxyResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(b),
	}, nil
}

func msgResp(status int, msg string) (events.APIGatewayProxyResponse, error) {
	return jsonResp(status, map[string]any{"message": msg})
}

func noContentResp() (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: 204,
		Headers: map[string]string{
			"Access-Control-Allow-Origin": "*",
		},
	}, nil
}
