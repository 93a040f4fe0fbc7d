package authchallenge

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// Verify compares the submitted answer against the issued code with exact
// string equality and records the result for the next Define invocation.
func Verify(ctx context.Context, event *events.CognitoEventUserPoolsVerifyAuthChallenge) (*events.CognitoEventUserPoolsVerifyAuthChallenge, error) {
	expected := event.Request.PrivateChallengeParameters["otp"]
	answer, ok := event.Request.ChallengeAnswer.(string)
	event.Response.AnswerCorrect = ok && answer == expected
	return event, nil
}
