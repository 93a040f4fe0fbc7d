package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoAPI is the slice of the Cognito client the signup flow uses.
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, in *cognitoidentityprovider.InitiateAuthInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	RespondToAuthChallenge(ctx context.Context, in *cognitoidentityprovider.RespondToAuthChallengeInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.RespondToAuthChallengeOutput, error)
	AdminConfirmSignUp(ctx context.Context, in *cognitoidentityprovider.AdminConfirmSignUpInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminConfirmSignUpOutput, error)
	AdminGetUser(ctx context.Context, in *cognitoidentityprovider.AdminGetUserInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminGetUserOutput, error)
}

// Signup drives the passwordless sign-in against the user pool: /signup
// starts a custom-auth challenge, /confirm answers it and hands back tokens
// plus the user's attributes.
type Signup struct {
	Cognito    CognitoAPI
	UserPoolID string
	ClientID   string
}

func NewSignup(cognito CognitoAPI, userPoolID, clientID string) *Signup {
	return &Signup{Cognito: cognito, UserPoolID: userPoolID, ClientID: clientID}
}

func errorResp(status int, msg string) (events.APIGatewayProxyResponse, error) {
	return jsonResp(status, map[string]any{"error": msg})
}

func (h *Signup) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch {
	case strings.Contains(req.Path, "/signup"):
		return h.signup(ctx, req.Body)
	case strings.Contains(req.Path, "/confirm"):
		return h.confirm(ctx, req.Body)
	default:
		return errorResp(404, "Route not found")
	}
}

func (h *Signup) signup(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return errorResp(500, err.Error())
	}

	out, err := h.Cognito.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeCustomAuth,
		ClientId: aws.String(h.ClientID),
		AuthParameters: map[string]string{
			"USERNAME": in.Email,
		},
	})
	if err != nil {
		log.Printf("initiating auth for %s: %v", in.Email, err)
		return errorResp(500, err.Error())
	}

	return jsonResp(200, map[string]any{
		"session":       aws.ToString(out.Session),
		"challengeName": string(out.ChallengeName),
		"isNewUser":     false,
	})
}

func (h *Signup) confirm(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var in struct {
		Email     string `json:"email"`
		Otp       string `json:"otp"`
		Session   string `json:"session"`
		IsNewUser bool   `json:"isNewUser"`
	}
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return errorResp(500, err.Error())
	}

	out, err := h.Cognito.RespondToAuthChallenge(ctx, &cognitoidentityprovider.RespondToAuthChallengeInput{
		ChallengeName: types.ChallengeNameTypeCustomChallenge,
		ClientId:      aws.String(h.ClientID),
		ChallengeResponses: map[string]string{
			"USERNAME": in.Email,
			"ANSWER":   in.Otp,
		},
		Session: aws.String(in.Session),
	})
	if err != nil {
		log.Printf("responding to challenge for %s: %v", in.Email, err)
		return errorResp(500, err.Error())
	}
	if out.AuthenticationResult == nil {
		return errorResp(500, "challenge not completed")
	}

	if in.IsNewUser {
		_, err := h.Cognito.AdminConfirmSignUp(ctx, &cognitoidentityprovider.AdminConfirmSignUpInput{
			UserPoolId: aws.String(h.UserPoolID),
			Username:   aws.String(in.Email),
		})
		if err != nil {
			// Already-confirmed accounts land here; not a failure.
			log.Printf("confirming user %s (may already be confirmed): %v", in.Email, err)
		}
	}

	user, err := h.Cognito.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(h.UserPoolID),
		Username:   aws.String(in.Email),
	})
	if err != nil {
		log.Printf("fetching attributes for %s: %v", in.Email, err)
		return errorResp(500, err.Error())
	}

	attributes := map[string]string{}
	for _, attr := range user.UserAttributes {
		attributes[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
	}

	return jsonResp(200, map[string]any{
		"message":   "Authentication successful",
		"isNewUser": in.IsNewUser,
		"tokens": map[string]any{
			"accessToken":  aws.ToString(out.AuthenticationResult.AccessToken),
			"idToken":      aws.ToString(out.AuthenticationResult.IdToken),
			"refreshToken": aws.ToString(out.AuthenticationResult.RefreshToken),
		},
		"attributes": attributes,
	})
}
