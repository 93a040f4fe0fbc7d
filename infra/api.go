package main

import (
	"fmt"
	"strings"

	apigwv2 "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/apigatewayv2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type ApiArgs struct {
	functions *Functions
	auth      *Auth
}

type Api struct {
	api          *apigwv2.Api
	defaultStage *apigwv2.Stage
}

func NewApi(ctx *pulumi.Context, args ApiArgs) (*Api, error) {
	a := &Api{}
	var err error
	a.api, err = apigwv2.NewApi(ctx, "api", &apigwv2.ApiArgs{
		ProtocolType: pulumi.String("HTTP"),
		CorsConfiguration: &apigwv2.ApiCorsConfigurationArgs{
			AllowOrigins: pulumi.ToStringArray([]string{"*"}),
			AllowMethods: pulumi.ToStringArray([]string{"*"}),
			AllowHeaders: pulumi.ToStringArray([]string{"*"}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating api: %w", err)
	}

	a.defaultStage, err = apigwv2.NewStage(ctx, "default-stage", &apigwv2.StageArgs{
		ApiId:      a.api.ID(),
		AutoDeploy: pulumi.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating stage: %w", err)
	}

	routes := []struct {
		name    string
		handler *lambda.Function
		keys    []string
	}{
		{"mentors", args.functions.mentors, []string{
			"GET /mentors",
			"POST /mentors",
			"GET /mentors/{mentor_id}",
			"PUT /mentors/{mentor_id}",
			"DELETE /mentors/{mentor_id}",
		}},
		{"startups", args.functions.startups, []string{
			"GET /startups",
			"POST /startups",
			"GET /startups/{startup_name}",
			"PUT /startups/{startup_name}",
			"DELETE /startups/{startup_name}",
		}},
		{"sessions", args.functions.sessions, []string{
			"GET /sessions",
			"POST /sessions",
			"GET /sessions/today",
			"GET /sessions/{session_id}",
			"PUT /sessions/{session_id}",
			"DELETE /sessions/{session_id}",
		}},
		{"uploads", args.functions.uploads, []string{
			"POST /uploads",
		}},
		{"signup", args.auth.signup, []string{
			"POST /signup",
			"POST /confirm",
		}},
	}
	for _, r := range routes {
		if err := a.registerLambda(ctx, r.name, r.handler, r.keys); err != nil {
			return nil, err
		}
	}

	ctx.Export("url", a.defaultStage.InvokeUrl)

	return a, nil
}

// registerLambda proxies a set of route keys to one function. The 1.0 payload
// format keeps the v1 proxy event shape the handlers decode.
func (a *Api) registerLambda(ctx *pulumi.Context, name string, handler *lambda.Function, routeKeys []string) error {
	integration, err := apigwv2.NewIntegration(ctx, name+"-integration", &apigwv2.IntegrationArgs{
		ApiId:                a.api.ID(),
		IntegrationType:      pulumi.String("AWS_PROXY"),
		IntegrationUri:       handler.Arn,
		PayloadFormatVersion: pulumi.String("1.0"),
	})
	if err != nil {
		return fmt.Errorf("Error creating %s integration: %w", name, err)
	}

	for _, key := range routeKeys {
		routeName := name + "-" + routeSlug(key)
		_, err = apigwv2.NewRoute(ctx, routeName, &apigwv2.RouteArgs{
			ApiId:    a.api.ID(),
			RouteKey: pulumi.String(key),
			Target:   pulumi.Sprintf("integrations/%s", integration.ID()),
		})
		if err != nil {
			return fmt.Errorf("Error creating %s route: %w", routeName, err)
		}
	}

	_, err = lambda.NewPermission(ctx, name+"-apigw-permission", &lambda.PermissionArgs{
		Action:    pulumi.String("lambda:InvokeFunction"),
		SourceArn: pulumi.Sprintf("%s/*/*", a.api.ExecutionArn),
		Function:  handler.Name,
		Principal: pulumi.String("apigateway.amazonaws.com"),
	})
	if err != nil {
		return fmt.Errorf("Error creating %s permission: %w", name, err)
	}

	return nil
}

func routeSlug(routeKey string) string {
	slug := strings.ToLower(routeKey)
	for _, ch := range []string{" ", "/", "{", "}", "_"} {
		slug = strings.ReplaceAll(slug, ch, "-")
	}
	return strings.Trim(strings.ReplaceAll(slug, "--", "-"), "-")
}
