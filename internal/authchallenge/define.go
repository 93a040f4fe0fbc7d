// Package authchallenge holds the Cognito custom-auth trigger handlers for
// the passwordless OTP sign-in: define picks the next step, create issues a
// code over email, verify checks the submitted answer.
package authchallenge

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

const ChallengeName = "CUSTOM_CHALLENGE"

// Define decides the next auth step. With no prior attempt a custom
// challenge is issued; otherwise the first attempt's result settles the flow.
// There is no retry budget: one wrong answer fails authentication outright.
func Define(ctx context.Context, event *events.CognitoEventUserPoolsDefineAuthChallenge) (*events.CognitoEventUserPoolsDefineAuthChallenge, error) {
	if len(event.Request.Session) == 0 {
		event.Response.ChallengeName = ChallengeName
		return event, nil
	}
	event.Response.IssueTokens = event.Request.Session[0].ChallengeResult
	event.Response.FailAuthentication = !event.Response.IssueTokens
	return event, nil
}
