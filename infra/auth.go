package main

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cognito"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type AuthArgs struct {
	functions *Functions
}

type Auth struct {
	pool   *cognito.UserPool
	client *cognito.UserPoolClient
	signup *lambda.Function
}

// NewAuth wires the custom-auth challenge triggers into a user pool and
// creates the signup function, which needs the pool and client ids in its
// environment.
func NewAuth(ctx *pulumi.Context, args AuthArgs) (*Auth, error) {
	a := &Auth{}
	var err error

	a.pool, err = cognito.NewUserPool(ctx, "users", &cognito.UserPoolArgs{
		UsernameAttributes:     pulumi.ToStringArray([]string{"email"}),
		AutoVerifiedAttributes: pulumi.ToStringArray([]string{"email"}),
		LambdaConfig: &cognito.UserPoolLambdaConfigArgs{
			DefineAuthChallenge:         args.functions.defineAuth.Arn,
			CreateAuthChallenge:         args.functions.createAuth.Arn,
			VerifyAuthChallengeResponse: args.functions.verifyAuth.Arn,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating user pool: %w", err)
	}

	triggers := map[string]*lambda.Function{
		"define-auth-trigger": args.functions.defineAuth,
		"create-auth-trigger": args.functions.createAuth,
		"verify-auth-trigger": args.functions.verifyAuth,
	}
	for name, fn := range triggers {
		_, err = lambda.NewPermission(ctx, name+"-permission", &lambda.PermissionArgs{
			Action:    pulumi.String("lambda:InvokeFunction"),
			Function:  fn.Name,
			Principal: pulumi.String("cognito-idp.amazonaws.com"),
			SourceArn: a.pool.Arn,
		})
		if err != nil {
			return nil, fmt.Errorf("Error creating %s permission: %w", name, err)
		}
	}

	a.client, err = cognito.NewUserPoolClient(ctx, "web-client", &cognito.UserPoolClientArgs{
		UserPoolId: a.pool.ID(),
		ExplicitAuthFlows: pulumi.ToStringArray([]string{
			"ALLOW_CUSTOM_AUTH",
			"ALLOW_REFRESH_TOKEN_AUTH",
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating user pool client: %w", err)
	}

	a.signup, err = args.functions.newFunction(ctx, "signup", pulumi.StringMap{
		"USER_POOL_ID":        a.pool.ID().ToStringOutput(),
		"USER_POOL_CLIENT_ID": a.client.ID().ToStringOutput(),
	})
	if err != nil {
		return nil, err
	}

	ctx.Export("userPoolId", a.pool.ID())
	ctx.Export("userPoolClientId", a.client.ID())

	return a, nil
}
