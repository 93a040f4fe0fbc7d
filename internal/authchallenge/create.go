package authchallenge

import (
	"context"
	"log"
	"math/rand"
	"strconv"

	"backend/internal/mail"

	"github.com/aws/aws-lambda-go/events"
)

// Creator issues the OTP challenge: it generates a 6-digit code, mails it to
// the user, and stashes the code in the private challenge parameters.
type Creator struct {
	Mailer mail.Sender
}

func NewCreator(mailer mail.Sender) *Creator {
	return &Creator{Mailer: mailer}
}

func (c *Creator) Handle(ctx context.Context, event *events.CognitoEventUserPoolsCreateAuthChallenge) (*events.CognitoEventUserPoolsCreateAuthChallenge, error) {
	otp := GenerateOTP()
	email := event.Request.UserAttributes["email"]

	if err := c.Mailer.Send(ctx, email, "Your OTP Code", "Your OTP is: "+otp); err != nil {
		// Fail open: the challenge is still issued, the user just never
		// receives the code. Matches deployed behavior.
		log.Printf("sending OTP email to %s: %v", email, err)
	}

	event.Response.PublicChallengeParameters = map[string]string{"email": email}
	event.Response.PrivateChallengeParameters = map[string]string{"otp": otp}
	event.Response.ChallengeMetadata = "OTP_CHALLENGE"
	return event, nil
}

// GenerateOTP returns a uniformly random 6-digit code, 100000 through 999999.
func GenerateOTP() string {
	return strconv.Itoa(rand.Intn(900000) + 100000)
}
