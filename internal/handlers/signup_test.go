package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/require"
)

type fakeCognito struct {
	initiateAuth func(*cognitoidentityprovider.InitiateAuthInput) (*cognitoidentityprovider.InitiateAuthOutput, error)
	respond      func(*cognitoidentityprovider.RespondToAuthChallengeInput) (*cognitoidentityprovider.RespondToAuthChallengeOutput, error)
	confirm      func(*cognitoidentityprovider.AdminConfirmSignUpInput) (*cognitoidentityprovider.AdminConfirmSignUpOutput, error)
	getUser      func(*cognitoidentityprovider.AdminGetUserInput) (*cognitoidentityprovider.AdminGetUserOutput, error)

	confirmCalled bool
}

func (f *fakeCognito) InitiateAuth(_ context.Context, in *cognitoidentityprovider.InitiateAuthInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	return f.initiateAuth(in)
}

func (f *fakeCognito) RespondToAuthChallenge(_ context.Context, in *cognitoidentityprovider.RespondToAuthChallengeInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.RespondToAuthChallengeOutput, error) {
	return f.respond(in)
}

func (f *fakeCognito) AdminConfirmSignUp(_ context.Context, in *cognitoidentityprovider.AdminConfirmSignUpInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminConfirmSignUpOutput, error) {
	f.confirmCalled = true
	if f.confirm != nil {
		return f.confirm(in)
	}
	return &cognitoidentityprovider.AdminConfirmSignUpOutput{}, nil
}

func (f *fakeCognito) AdminGetUser(_ context.Context, in *cognitoidentityprovider.AdminGetUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminGetUserOutput, error) {
	return f.getUser(in)
}

func TestSignupInitiatesCustomAuth(t *testing.T) {
	fake := &fakeCognito{
		initiateAuth: func(in *cognitoidentityprovider.InitiateAuthInput) (*cognitoidentityprovider.InitiateAuthOutput, error) {
			require.Equal(t, types.AuthFlowTypeCustomAuth, in.AuthFlow)
			require.Equal(t, "client-1", aws.ToString(in.ClientId))
			require.Equal(t, "founder@example.com", in.AuthParameters["USERNAME"])
			return &cognitoidentityprovider.InitiateAuthOutput{
				Session:       aws.String("sess-token"),
				ChallengeName: types.ChallengeNameTypeCustomChallenge,
			}, nil
		},
	}
	h := NewSignup(fake, "pool-1", "client-1")

	resp, err := h.Handle(context.Background(), testReq("POST", "/signup", nil, `{"email":"founder@example.com"}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var out map[string]any
	decode(t, resp.Body, &out)
	require.Equal(t, "sess-token", out["session"])
	require.Equal(t, "CUSTOM_CHALLENGE", out["challengeName"])
}

func TestSignupUpstreamFailure(t *testing.T) {
	fake := &fakeCognito{
		initiateAuth: func(*cognitoidentityprovider.InitiateAuthInput) (*cognitoidentityprovider.InitiateAuthOutput, error) {
			return nil, errors.New("user pool unavailable")
		},
	}
	h := NewSignup(fake, "pool-1", "client-1")

	resp, err := h.Handle(context.Background(), testReq("POST", "/signup", nil, `{"email":"founder@example.com"}`))
	require.NoError(t, err)
	require.Equal(t, 500, resp.StatusCode)
	require.Contains(t, resp.Body, "user pool unavailable")
}

func TestConfirmReturnsTokensAndAttributes(t *testing.T) {
	fake := &fakeCognito{
		respond: func(in *cognitoidentityprovider.RespondToAuthChallengeInput) (*cognitoidentityprovider.RespondToAuthChallengeOutput, error) {
			require.Equal(t, types.ChallengeNameTypeCustomChallenge, in.ChallengeName)
			require.Equal(t, "123456", in.ChallengeResponses["ANSWER"])
			require.Equal(t, "sess-token", aws.ToString(in.Session))
			return &cognitoidentityprovider.RespondToAuthChallengeOutput{
				AuthenticationResult: &types.AuthenticationResultType{
					AccessToken:  aws.String("access"),
					IdToken:      aws.String("id"),
					RefreshToken: aws.String("refresh"),
				},
			}, nil
		},
		getUser: func(in *cognitoidentityprovider.AdminGetUserInput) (*cognitoidentityprovider.AdminGetUserOutput, error) {
			require.Equal(t, "pool-1", aws.ToString(in.UserPoolId))
			return &cognitoidentityprovider.AdminGetUserOutput{
				UserAttributes: []types.AttributeType{
					{Name: aws.String("email"), Value: aws.String("founder@example.com")},
					{Name: aws.String("sub"), Value: aws.String("abc-123")},
				},
			}, nil
		},
	}
	h := NewSignup(fake, "pool-1", "client-1")

	resp, err := h.Handle(context.Background(), testReq("POST", "/confirm", nil,
		`{"email":"founder@example.com","otp":"123456","session":"sess-token","isNewUser":true}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.True(t, fake.confirmCalled)

	var out struct {
		Message    string            `json:"message"`
		IsNewUser  bool              `json:"isNewUser"`
		Tokens     map[string]string `json:"tokens"`
		Attributes map[string]string `json:"attributes"`
	}
	decode(t, resp.Body, &out)
	require.Equal(t, "Authentication successful", out.Message)
	require.True(t, out.IsNewUser)
	require.Equal(t, "access", out.Tokens["accessToken"])
	require.Equal(t, "id", out.Tokens["idToken"])
	require.Equal(t, "refresh", out.Tokens["refreshToken"])
	require.Equal(t, "founder@example.com", out.Attributes["email"])
}

func TestConfirmToleratesAlreadyConfirmed(t *testing.T) {
	fake := &fakeCognito{
		respond: func(*cognitoidentityprovider.RespondToAuthChallengeInput) (*cognitoidentityprovider.RespondToAuthChallengeOutput, error) {
			return &cognitoidentityprovider.RespondToAuthChallengeOutput{
				AuthenticationResult: &types.AuthenticationResultType{
					AccessToken:  aws.String("access"),
					IdToken:      aws.String("id"),
					RefreshToken: aws.String("refresh"),
				},
			}, nil
		},
		confirm: func(*cognitoidentityprovider.AdminConfirmSignUpInput) (*cognitoidentityprovider.AdminConfirmSignUpOutput, error) {
			return nil, errors.New("User cannot be confirmed. Current status is CONFIRMED")
		},
		getUser: func(*cognitoidentityprovider.AdminGetUserInput) (*cognitoidentityprovider.AdminGetUserOutput, error) {
			return &cognitoidentityprovider.AdminGetUserOutput{}, nil
		},
	}
	h := NewSignup(fake, "pool-1", "client-1")

	resp, err := h.Handle(context.Background(), testReq("POST", "/confirm", nil,
		`{"email":"founder@example.com","otp":"123456","session":"sess-token","isNewUser":true}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestConfirmWrongCodeSurfacesError(t *testing.T) {
	fake := &fakeCognito{
		respond: func(*cognitoidentityprovider.RespondToAuthChallengeInput) (*cognitoidentityprovider.RespondToAuthChallengeOutput, error) {
			return nil, errors.New("Incorrect username or password")
		},
	}
	h := NewSignup(fake, "pool-1", "client-1")

	resp, err := h.Handle(context.Background(), testReq("POST", "/confirm", nil,
		`{"email":"founder@example.com","otp":"000000","session":"sess-token"}`))
	require.NoError(t, err)
	require.Equal(t, 500, resp.StatusCode)
}

func TestSignupUnknownRoute(t *testing.T) {
	h := NewSignup(&fakeCognito{}, "pool-1", "client-1")

	resp, err := h.Handle(context.Background(), testReq("POST", "/password-reset", nil, "{}"))
	require.NoError(t, err)
	require.Equal(t, 404, resp.StatusCode)
	require.Contains(t, resp.Body, "Route not found")
}
