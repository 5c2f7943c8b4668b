package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/berkvakar/athleticfinance-web/internal/logging"
	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// ---- fake Cognito API ----

type fakeCognito struct {
	SignUpOut *cip.SignUpOutput
	SignUpErr error

	ConfirmErr error

	ResendErr error

	InitiateAuthOut *cip.InitiateAuthOutput
	InitiateAuthErr error

	GlobalSignOutErr   error
	GlobalSignOutCalls int

	GetUserOut *cip.GetUserOutput
	GetUserErr error

	LastSignUpInput  *cip.SignUpInput
	LastConfirmInput *cip.ConfirmSignUpInput
	LastResendInput  *cip.ResendConfirmationCodeInput
	LastAuthInput    *cip.InitiateAuthInput
}

func (f *fakeCognito) SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	f.LastSignUpInput = params
	return f.SignUpOut, f.SignUpErr
}

func (f *fakeCognito) ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	f.LastConfirmInput = params
	if f.ConfirmErr != nil {
		return nil, f.ConfirmErr
	}
	return &cip.ConfirmSignUpOutput{}, nil
}

func (f *fakeCognito) ResendConfirmationCode(ctx context.Context, params *cip.ResendConfirmationCodeInput, optFns ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error) {
	f.LastResendInput = params
	if f.ResendErr != nil {
		return nil, f.ResendErr
	}
	return &cip.ResendConfirmationCodeOutput{}, nil
}

func (f *fakeCognito) InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.LastAuthInput = params
	return f.InitiateAuthOut, f.InitiateAuthErr
}

func (f *fakeCognito) GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error) {
	f.GlobalSignOutCalls++
	if f.GlobalSignOutErr != nil {
		return nil, f.GlobalSignOutErr
	}
	return &cip.GlobalSignOutOutput{}, nil
}

func (f *fakeCognito) GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error) {
	return f.GetUserOut, f.GetUserErr
}

func newGateway(f *fakeCognito) *CognitoGateway {
	return &CognitoGateway{api: f, clientID: "client-1", log: logging.Nop()}
}

func attrValue(attrs []types.AttributeType, name string) (string, bool) {
	for _, a := range attrs {
		if aws.ToString(a.Name) == name {
			return aws.ToString(a.Value), true
		}
	}
	return "", false
}

// ---- TESTS ----

func TestSignUp_SendsAttributesAndGeneratedUsername(t *testing.T) {
	fc := &fakeCognito{SignUpOut: &cip.SignUpOutput{UserSub: aws.String("sub-1"), UserConfirmed: false}}
	g := newGateway(fc)

	res, err := g.SignUp(context.Background(), SignUpInput{
		Email:    "a@b.com",
		Password: "Abcdef1!",
		Name:     "Ada Lovelace",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Username)
	require.Equal(t, "sub-1", res.UserID)
	require.False(t, res.Confirmed)

	in := fc.LastSignUpInput
	require.Equal(t, "client-1", aws.ToString(in.ClientId))
	require.Equal(t, res.Username, aws.ToString(in.Username))

	email, ok := attrValue(in.UserAttributes, "email")
	require.True(t, ok)
	require.Equal(t, "a@b.com", email)

	name, ok := attrValue(in.UserAttributes, "name")
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", name)

	plan, ok := attrValue(in.UserAttributes, "custom:PaidPlan")
	require.True(t, ok)
	require.Equal(t, "none", plan)
}

func TestSignUp_PartnerFlowOmitsName(t *testing.T) {
	fc := &fakeCognito{SignUpOut: &cip.SignUpOutput{UserSub: aws.String("sub-1")}}
	g := newGateway(fc)

	_, err := g.SignUp(context.Background(), SignUpInput{Email: "a@b.com", Password: "Abcdef1!"})
	require.NoError(t, err)

	_, ok := attrValue(fc.LastSignUpInput.UserAttributes, "name")
	require.False(t, ok)
}

func TestSignUp_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		apiErr  error
		wantErr error
	}{
		{
			name:    "duplicate username",
			apiErr:  &types.UsernameExistsException{Message: aws.String("User already exists")},
			wantErr: ErrDuplicateAccount,
		},
		{
			name:    "weak password",
			apiErr:  &types.InvalidPasswordException{Message: aws.String("Password did not conform with policy")},
			wantErr: ErrWeakCredential,
		},
		{
			name:    "hook says account exists",
			apiErr:  &types.UserLambdaValidationException{Message: aws.String("PreSignUp failed with error An account with this email already exists.")},
			wantErr: ErrAlreadyRegistered,
		},
		{
			name:    "hook says try logging in",
			apiErr:  &types.UserLambdaValidationException{Message: aws.String("PreSignUp failed with error Please try logging in instead.")},
			wantErr: ErrAlreadyRegistered,
		},
		{
			name:    "hook says already a partner",
			apiErr:  &types.UserLambdaValidationException{Message: aws.String("PreSignUp failed with error This partner is already active.")},
			wantErr: ErrAlreadyPartner,
		},
		{
			name:    "hook generic veto",
			apiErr:  &types.UserLambdaValidationException{Message: aws.String("PreSignUp failed with error registrations are closed")},
			wantErr: ErrProviderRejected,
		},
		{
			name:    "transport failure",
			apiErr:  errors.New("dial tcp: connection refused"),
			wantErr: ErrUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGateway(&fakeCognito{SignUpErr: tc.apiErr})
			_, err := g.SignUp(context.Background(), SignUpInput{Email: "a@b.com", Password: "Abcdef1!"})
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestConfirmSignUp_WrongCodeIsNotAnError(t *testing.T) {
	tests := []struct {
		name   string
		apiErr error
	}{
		{name: "code mismatch", apiErr: &types.CodeMismatchException{Message: aws.String("Invalid verification code provided")}},
		{name: "code expired", apiErr: &types.ExpiredCodeException{Message: aws.String("Invalid code provided, please request a code again")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGateway(&fakeCognito{ConfirmErr: tc.apiErr})
			ok, err := g.ConfirmSignUp(context.Background(), "u-1", "123456")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestConfirmSignUp_SuccessAndTransportError(t *testing.T) {
	g := newGateway(&fakeCognito{})
	ok, err := g.ConfirmSignUp(context.Background(), "u-1", "123456")
	require.NoError(t, err)
	require.True(t, ok)

	g = newGateway(&fakeCognito{ConfirmErr: errors.New("connection reset")})
	ok, err = g.ConfirmSignUp(context.Background(), "u-1", "123456")
	require.ErrorIs(t, err, ErrUnavailable)
	require.False(t, ok)
}

func TestSignIn_SuccessStoresTokens(t *testing.T) {
	fc := &fakeCognito{InitiateAuthOut: &cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken: aws.String("access-token"),
			IdToken:     aws.String("id-token"),
		},
	}}
	g := newGateway(fc)

	res, err := g.SignIn(context.Background(), "a@b.com", "Abcdef1!")
	require.NoError(t, err)
	require.True(t, res.SignedIn)
	require.Equal(t, "access-token", g.accessToken)
	require.Equal(t, "id-token", g.idToken)
	require.Equal(t, "a@b.com", fc.LastAuthInput.AuthParameters["USERNAME"])
}

func TestSignIn_ChallengeMeansNotSignedIn(t *testing.T) {
	fc := &fakeCognito{InitiateAuthOut: &cip.InitiateAuthOutput{
		ChallengeName: types.ChallengeNameTypeSmsMfa,
	}}
	g := newGateway(fc)

	res, err := g.SignIn(context.Background(), "a@b.com", "Abcdef1!")
	require.NoError(t, err)
	require.False(t, res.SignedIn)
	require.Equal(t, string(types.ChallengeNameTypeSmsMfa), res.NextStep)
}

func TestSignIn_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		apiErr  error
		wantErr error
	}{
		{
			name:    "wrong password",
			apiErr:  &types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")},
			wantErr: ErrInvalidCredential,
		},
		{
			name:    "no such account",
			apiErr:  &types.UserNotFoundException{Message: aws.String("User does not exist.")},
			wantErr: ErrAccountNotFound,
		},
		{
			name:    "unconfirmed account",
			apiErr:  &types.UserNotConfirmedException{Message: aws.String("User is not confirmed.")},
			wantErr: ErrAccountNotVerified,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGateway(&fakeCognito{InitiateAuthErr: tc.apiErr})
			_, err := g.SignIn(context.Background(), "a@b.com", "pw")
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSignOut_GlobalRevokesAndClearsTokens(t *testing.T) {
	fc := &fakeCognito{}
	g := newGateway(fc)
	g.accessToken = "access-token"
	g.idToken = "id-token"

	require.NoError(t, g.SignOut(context.Background(), true))
	require.Equal(t, 1, fc.GlobalSignOutCalls)
	require.Empty(t, g.accessToken)
	require.Empty(t, g.idToken)
}

func TestSignOut_LocalOnlySkipsProvider(t *testing.T) {
	fc := &fakeCognito{}
	g := newGateway(fc)
	g.accessToken = "access-token"

	require.NoError(t, g.SignOut(context.Background(), false))
	require.Zero(t, fc.GlobalSignOutCalls)
	require.Empty(t, g.accessToken)
}

func TestCurrentAccount(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		g := newGateway(&fakeCognito{})
		ref, err := g.CurrentAccount(context.Background())
		require.NoError(t, err)
		require.Nil(t, ref)
	})

	t.Run("active session", func(t *testing.T) {
		fc := &fakeCognito{GetUserOut: &cip.GetUserOutput{
			Username: aws.String("u-1"),
			UserAttributes: []types.AttributeType{
				{Name: aws.String("sub"), Value: aws.String("sub-1")},
			},
		}}
		g := newGateway(fc)
		g.accessToken = "access-token"

		ref, err := g.CurrentAccount(context.Background())
		require.NoError(t, err)
		require.Equal(t, &AccountRef{Username: "u-1", UserID: "sub-1"}, ref)
	})

	t.Run("expired token is no session", func(t *testing.T) {
		g := newGateway(&fakeCognito{GetUserErr: &types.NotAuthorizedException{Message: aws.String("Access Token has expired")}})
		g.accessToken = "stale"

		ref, err := g.CurrentAccount(context.Background())
		require.NoError(t, err)
		require.Nil(t, ref)
	})

	t.Run("transport failure surfaces", func(t *testing.T) {
		g := newGateway(&fakeCognito{GetUserErr: errors.New("connection refused")})
		g.accessToken = "access-token"

		_, err := g.CurrentAccount(context.Background())
		require.ErrorIs(t, err, ErrUnavailable)
	})
}

func signedIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestAccountAttributes_FromIDToken(t *testing.T) {
	g := newGateway(&fakeCognito{})
	g.idToken = signedIDToken(t, jwt.MapClaims{
		"sub":                  "sub-1",
		"cognito:username":     "u-1",
		"email":                "a@b.com",
		"name":                 "Ada Lovelace",
		"email_verified":       true,
		"custom:PartnerStatus": "pending",
		"custom:PaidPlan":      "monthly",
	})

	acc := g.AccountAttributes(context.Background())
	require.Equal(t, models.Account{
		UserID:        "sub-1",
		Username:      "u-1",
		Email:         "a@b.com",
		Name:          "Ada Lovelace",
		EmailVerified: true,
		PartnerStatus: models.PartnerStatusPending,
		PaidPlan:      "monthly",
	}, acc)
}

func TestAccountAttributes_StringBooleanForm(t *testing.T) {
	g := newGateway(&fakeCognito{})
	g.idToken = signedIDToken(t, jwt.MapClaims{
		"email":          "a@b.com",
		"email_verified": "true",
	})

	acc := g.AccountAttributes(context.Background())
	require.True(t, acc.EmailVerified)
}

func TestAccountAttributes_NeverFails(t *testing.T) {
	g := newGateway(&fakeCognito{})

	// No session at all.
	acc := g.AccountAttributes(context.Background())
	require.Equal(t, models.PartnerStatusNone, acc.PartnerStatus)
	require.Empty(t, acc.Email)

	// Garbage token.
	g.idToken = "not-a-jwt"
	acc = g.AccountAttributes(context.Background())
	require.Equal(t, models.PartnerStatusNone, acc.PartnerStatus)
}
