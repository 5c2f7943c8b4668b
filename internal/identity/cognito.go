package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/berkvakar/athleticfinance-web/internal/logging"
	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// Cognito user-pool attribute names.
const (
	attrEmail         = "email"
	attrEmailVerified = "email_verified"
	attrName          = "name"
	attrPartnerStatus = "custom:PartnerStatus"
	attrPaidPlan      = "custom:PaidPlan"
)

// CognitoConfig holds the user-pool client settings.
type CognitoConfig struct {
	Region   string
	ClientID string
	// Endpoint overrides the service URL, e.g. for cognito-local in tests.
	Endpoint string
	// Static credentials are optional; the public-client APIs used here
	// accept unsigned requests, so anonymous credentials are the default.
	AccessKeyID     string
	SecretAccessKey string
}

// cognitoAPI is the subset of the Cognito IDP client the gateway calls.
// *cip.Client satisfies it; tests substitute a fake.
type cognitoAPI interface {
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	ResendConfirmationCode(ctx context.Context, params *cip.ResendConfirmationCodeInput, optFns ...func(*cip.Options)) (*cip.ResendConfirmationCodeOutput, error)
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, params *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
	GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
}

// CognitoGateway implements Gateway against an AWS Cognito user pool.
//
// The gateway holds the tokens of at most one signed-in session. It is a
// single-writer resource: one gateway per form session, no locking.
type CognitoGateway struct {
	api      cognitoAPI
	clientID string
	log      logging.Logger

	accessToken string
	idToken     string
}

func NewCognitoGateway(ctx context.Context, cfg CognitoConfig, log logging.Logger) (*CognitoGateway, error) {
	if log == nil {
		log = logging.Nop()
	}

	credsProvider := aws.CredentialsProvider(aws.AnonymousCredentials{})
	if cfg.AccessKeyID != "" {
		credsProvider = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credsProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &CognitoGateway{api: client, clientID: cfg.ClientID, log: log}, nil
}

func (g *CognitoGateway) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	// The pool identifies accounts by email; the username is an opaque,
	// collision-free identifier.
	username := uuid.NewString()

	plan := in.PaidPlan
	if plan == "" {
		plan = "none"
	}

	attributes := []types.AttributeType{
		{Name: aws.String(attrEmail), Value: aws.String(in.Email)},
		{Name: aws.String(attrPaidPlan), Value: aws.String(plan)},
	}
	if in.Name != "" {
		attributes = append(attributes, types.AttributeType{
			Name: aws.String(attrName), Value: aws.String(in.Name),
		})
	}

	out, err := g.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:       aws.String(g.clientID),
		Username:       aws.String(username),
		Password:       aws.String(in.Password),
		UserAttributes: attributes,
	})
	if err != nil {
		return nil, g.mapError(err)
	}

	g.log.Info(ctx, "sign-up accepted", "username", username, "confirmed", out.UserConfirmed)

	return &SignUpResult{
		Username:  username,
		UserID:    aws.ToString(out.UserSub),
		Confirmed: out.UserConfirmed,
	}, nil
}

func (g *CognitoGateway) ConfirmSignUp(ctx context.Context, username, code string) (bool, error) {
	_, err := g.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(g.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
	})
	if err == nil {
		return true, nil
	}

	// A wrong or expired code is a normal outcome, not an error.
	var mismatch *types.CodeMismatchException
	var expired *types.ExpiredCodeException
	if errors.As(err, &mismatch) || errors.As(err, &expired) {
		g.log.Debug(ctx, "confirmation code rejected", "username", username)
		return false, nil
	}

	return false, g.mapError(err)
}

func (g *CognitoGateway) ResendConfirmationCode(ctx context.Context, username string) error {
	_, err := g.api.ResendConfirmationCode(ctx, &cip.ResendConfirmationCodeInput{
		ClientId: aws.String(g.clientID),
		Username: aws.String(username),
	})
	if err != nil {
		return g.mapError(err)
	}
	return nil
}

func (g *CognitoGateway) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	out, err := g.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(g.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, g.mapError(err)
	}

	if out.AuthenticationResult == nil {
		// The pool wants an additional challenge (MFA, new password, ...).
		// The onboarding flow does not handle challenges.
		return &SignInResult{SignedIn: false, NextStep: string(out.ChallengeName)}, nil
	}

	g.accessToken = aws.ToString(out.AuthenticationResult.AccessToken)
	g.idToken = aws.ToString(out.AuthenticationResult.IdToken)

	return &SignInResult{SignedIn: true}, nil
}

func (g *CognitoGateway) SignOut(ctx context.Context, global bool) error {
	token := g.accessToken
	g.accessToken = ""
	g.idToken = ""

	if !global || token == "" {
		return nil
	}

	if _, err := g.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{AccessToken: aws.String(token)}); err != nil {
		// Best-effort: the local session is gone either way.
		g.log.Warn(ctx, "global sign-out failed", "error", err)
		return g.mapError(err)
	}
	return nil
}

func (g *CognitoGateway) CurrentAccount(ctx context.Context) (*AccountRef, error) {
	if g.accessToken == "" {
		return nil, nil
	}

	out, err := g.api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(g.accessToken)})
	if err != nil {
		mapped := g.mapError(err)
		if errors.Is(mapped, ErrUnavailable) {
			return nil, mapped
		}
		// Expired or revoked token: no session.
		return nil, nil
	}

	ref := &AccountRef{Username: aws.ToString(out.Username)}
	for _, a := range out.UserAttributes {
		if aws.ToString(a.Name) == "sub" {
			ref.UserID = aws.ToString(a.Value)
		}
	}
	return ref, nil
}

func (g *CognitoGateway) AccountAttributes(ctx context.Context) models.Account {
	if g.idToken == "" {
		return models.Account{PartnerStatus: models.PartnerStatusNone}
	}

	account, err := accountFromIDToken(g.idToken)
	if err != nil {
		g.log.Warn(ctx, "id token parse failed", "error", err)
		return models.Account{PartnerStatus: models.PartnerStatusNone}
	}
	return account
}

// mapError translates a Cognito failure into the gateway taxonomy. Provider
// message text is inspected here and nowhere else.
func (g *CognitoGateway) mapError(err error) error {
	var (
		exists      *types.UsernameExistsException
		weak        *types.InvalidPasswordException
		notAuth     *types.NotAuthorizedException
		notFound    *types.UserNotFoundException
		unconfirmed *types.UserNotConfirmedException
		hook        *types.UserLambdaValidationException
	)

	switch {
	case errors.As(err, &exists):
		return fmt.Errorf("%w: %s", ErrDuplicateAccount, exists.ErrorMessage())
	case errors.As(err, &weak):
		return fmt.Errorf("%w: %s", ErrWeakCredential, weak.ErrorMessage())
	case errors.As(err, &notAuth):
		return fmt.Errorf("%w: %s", ErrInvalidCredential, notAuth.ErrorMessage())
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %s", ErrAccountNotFound, notFound.ErrorMessage())
	case errors.As(err, &unconfirmed):
		return fmt.Errorf("%w: %s", ErrAccountNotVerified, unconfirmed.ErrorMessage())
	case errors.As(err, &hook):
		return classifyHookRejection(hook.ErrorMessage())
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		// The provider answered with something outside the taxonomy.
		return fmt.Errorf("identity provider error %s: %w", apiErr.ErrorCode(), err)
	}

	// No API-level response at all: transport failure.
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// classifyHookRejection interprets the free-text veto of the pre-registration
// hook. The match order mirrors the hook's known error catalog: an existing
// verified account first, then an active partner, then a generic veto.
func classifyHookRejection(msg string) error {
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "already exists") || strings.Contains(lower, "try logging in instead") {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, msg)
	}
	if strings.Contains(lower, "partner") && (strings.Contains(lower, "already") || strings.Contains(lower, "active")) {
		return fmt.Errorf("%w: %s", ErrAlreadyPartner, msg)
	}
	return fmt.Errorf("%w: %s", ErrProviderRejected, msg)
}
