package main

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/dynamodb"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/s3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type Storage struct {
	mentors    *dynamodb.Table
	startups   *dynamodb.Table
	sessions   *dynamodb.Table
	pitchDecks *s3.Bucket
}

func NewStorage(ctx *pulumi.Context) (*Storage, error) {
	s := &Storage{}
	var err error

	s.mentors, err = newTable(ctx, "mentors", "mentor_id")
	if err != nil {
		return nil, err
	}
	s.startups, err = newTable(ctx, "startups", "startup_name")
	if err != nil {
		return nil, err
	}
	s.sessions, err = newTable(ctx, "sessions", "session_id")
	if err != nil {
		return nil, err
	}

	s.pitchDecks, err = s3.NewBucket(ctx, "pitch-decks", &s3.BucketArgs{
		CorsRules: s3.BucketCorsRuleArray{
			&s3.BucketCorsRuleArgs{
				AllowedMethods: pulumi.ToStringArray([]string{"GET", "PUT", "POST"}),
				AllowedOrigins: pulumi.ToStringArray([]string{"*"}),
				AllowedHeaders: pulumi.ToStringArray([]string{"*"}),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating pitch deck bucket: %w", err)
	}

	return s, nil
}

func newTable(ctx *pulumi.Context, name, hashKey string) (*dynamodb.Table, error) {
	table, err := dynamodb.NewTable(ctx, name, &dynamodb.TableArgs{
		BillingMode: pulumi.String("PAY_PER_REQUEST"),
		HashKey:     pulumi.String(hashKey),
		Attributes: dynamodb.TableAttributeArray{
			&dynamodb.TableAttributeArgs{
				Name: pulumi.String(hashKey),
				Type: pulumi.String("S"),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating %s table: %w", name, err)
	}
	return table, nil
}
