package main

import (
	"fmt"
	"strings"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi-command/sdk/go/command/local"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// binaries lists every cmd/ entrypoint that gets its own function.
var binaries = []string{
	"mentors",
	"startups",
	"sessions",
	"uploads",
	"signup",
	"define-auth-challenge",
	"create-auth-challenge",
	"verify-auth-challenge",
}

type FunctionsArgs struct {
	storage *Storage
}

type Functions struct {
	role *iam.Role

	mentors    *lambda.Function
	startups   *lambda.Function
	sessions   *lambda.Function
	uploads    *lambda.Function
	defineAuth *lambda.Function
	createAuth *lambda.Function
	verifyAuth *lambda.Function
}

func NewFunctions(ctx *pulumi.Context, args FunctionsArgs) (*Functions, error) {
	f := &Functions{}

	var commands []string
	var assets []string
	commands = append(commands, "rm -rf infra/asset")
	for _, name := range binaries {
		commands = append(commands,
			fmt.Sprintf("GOOS=linux GOARCH=arm64 go build -mod=readonly -o ./infra/asset/%s/bootstrap ./cmd/%s", name, name))
		assets = append(assets, fmt.Sprintf("infra/asset/%s/bootstrap", name))
	}
	_, err := local.Run(ctx, &local.RunArgs{
		Dir:        pulumi.StringRef(".."),
		Command:    strings.Join(commands, " && "),
		AssetPaths: assets,
	})
	if err != nil {
		return nil, fmt.Errorf("Error building function binaries: %w", err)
	}

	assumeRolePolicy, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: []iam.GetPolicyDocumentStatement{
			{
				Actions: []string{"sts:AssumeRole"},
				Principals: []iam.GetPolicyDocumentStatementPrincipal{
					{Type: "Service", Identifiers: []string{"lambda.amazonaws.com"}},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating AssumeRolePolicy: %w", err)
	}
	role, err := iam.NewRole(ctx, "lambda-execution-role", &iam.RoleArgs{
		AssumeRolePolicy: pulumi.String(assumeRolePolicy.Json),
		ManagedPolicyArns: pulumi.ToStringArray([]string{
			string(iam.ManagedPolicyAWSLambdaBasicExecutionRole),
			string(iam.ManagedPolicyAmazonDynamoDBFullAccess),
			string(iam.ManagedPolicyAmazonS3FullAccess),
			string(iam.ManagedPolicyAmazonSESFullAccess),
			string(iam.ManagedPolicyAmazonCognitoPowerUser),
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating execution role: %w", err)
	}
	f.role = role

	f.mentors, err = f.newFunction(ctx, "mentors", pulumi.StringMap{
		"MENTORS_TABLE_NAME": args.storage.mentors.Name,
	})
	if err != nil {
		return nil, err
	}

	f.startups, err = f.newFunction(ctx, "startups", pulumi.StringMap{
		"STARTUPS_TABLE_NAME": args.storage.startups.Name,
	})
	if err != nil {
		return nil, err
	}

	f.sessions, err = f.newFunction(ctx, "sessions", pulumi.StringMap{
		"SESSIONS_TABLE_NAME": args.storage.sessions.Name,
	})
	if err != nil {
		return nil, err
	}

	f.uploads, err = f.newFunction(ctx, "uploads", pulumi.StringMap{
		"BUCKET_NAME": args.storage.pitchDecks.Bucket,
	})
	if err != nil {
		return nil, err
	}

	f.defineAuth, err = f.newFunction(ctx, "define-auth-challenge", nil)
	if err != nil {
		return nil, err
	}

	f.createAuth, err = f.newFunction(ctx, "create-auth-challenge", pulumi.StringMap{
		"OTP_SENDER_ADDRESS": pulumi.String("no-reply@horizon.example.com"),
	})
	if err != nil {
		return nil, err
	}

	f.verifyAuth, err = f.newFunction(ctx, "verify-auth-challenge", nil)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Functions) newFunction(ctx *pulumi.Context, name string, env pulumi.StringMap) (*lambda.Function, error) {
	code := pulumi.NewAssetArchive(map[string]interface{}{
		"bootstrap": pulumi.NewFileAsset(fmt.Sprintf("./asset/%s/bootstrap", name)),
	})

	functionArgs := &lambda.FunctionArgs{
		Architectures: pulumi.ToStringArray([]string{"arm64"}),
		Role:          f.role.Arn,
		Code:          code,
		Handler:       pulumi.String("bootstrap"),
		Runtime:       pulumi.String("provided.al2023"),
	}
	if env != nil {
		functionArgs.Environment = &lambda.FunctionEnvironmentArgs{
			Variables: env,
		}
	}

	fn, err := lambda.NewFunction(ctx, name, functionArgs)
	if err != nil {
		return nil, fmt.Errorf("Error creating %s function: %w", name, err)
	}
	return fn, nil
}
