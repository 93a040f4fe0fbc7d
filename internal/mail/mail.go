// Package mail sends the one-time-password emails for the custom auth flow.
package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Sender delivers a plain-text email to a single recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESSender sends through Amazon SES from a fixed verified address.
type SESSender struct {
	client *ses.Client
	source string
}

func NewSESSender(cfg aws.Config, source string) *SESSender {
	return &SESSender{
		client: ses.NewFromConfig(cfg),
		source: source,
	}
}

func (s *SESSender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
