package jwt

import (
	stderrors "errors"

	gojwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/kbukum/tokenkit/errors"
)

// ErrorKind classifies authority failures.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindMalformedToken
	KindInvalidSignature
	KindExpired
	KindWrongTokenType
	KindMissingRequiredClaim
	KindConfig
	// KindInvalidClaims covers authentic tokens whose other time claims
	// reject them, such as an nbf in the future.
	KindInvalidClaims
)

var kindNames = [...]string{
	KindUnknown:              "unknown",
	KindMalformedToken:       "malformed_token",
	KindInvalidSignature:     "invalid_signature",
	KindExpired:              "expired",
	KindWrongTokenType:       "wrong_token_type",
	KindMissingRequiredClaim: "missing_required_claim",
	KindConfig:               "config",
	KindInvalidClaims:        "invalid_claims",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Category groups error kinds by how a caller should react.
type Category uint8

const (
	CategoryUnknown Category = iota
	// CategoryReauthenticate means the client must obtain new credentials.
	CategoryReauthenticate
	// CategoryBadRequest means the client sent something that is not a token.
	CategoryBadRequest
	// CategoryMisconfigured means the server cannot issue or verify tokens.
	CategoryMisconfigured
)

// Category returns the reaction group for k.
func (k ErrorKind) Category() Category {
	switch k {
	case KindExpired, KindWrongTokenType, KindInvalidSignature, KindMissingRequiredClaim, KindInvalidClaims:
		return CategoryReauthenticate
	case KindMalformedToken:
		return CategoryBadRequest
	case KindConfig:
		return CategoryMisconfigured
	default:
		return CategoryUnknown
	}
}

// Error is returned by every Authority operation that rejects its input.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := "jwt: "
	if e.Op != "" {
		msg += e.Op + ": "
	}
	msg += e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMalformedToken       = &Error{Kind: KindMalformedToken}
	ErrInvalidSignature     = &Error{Kind: KindInvalidSignature}
	ErrExpired              = &Error{Kind: KindExpired}
	ErrWrongTokenType       = &Error{Kind: KindWrongTokenType}
	ErrMissingRequiredClaim = &Error{Kind: KindMissingRequiredClaim}
	ErrConfig               = &Error{Kind: KindConfig}
	ErrInvalidClaims        = &Error{Kind: KindInvalidClaims}
)

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// classify maps a golang-jwt parse error onto an ErrorKind.
func classify(err error) ErrorKind {
	switch {
	case stderrors.Is(err, gojwt.ErrTokenExpired):
		return KindExpired
	case stderrors.Is(err, gojwt.ErrTokenRequiredClaimMissing):
		return KindMissingRequiredClaim
	case stderrors.Is(err, gojwt.ErrTokenSignatureInvalid),
		stderrors.Is(err, gojwt.ErrTokenUnverifiable):
		return KindInvalidSignature
	case stderrors.Is(err, gojwt.ErrTokenNotValidYet),
		stderrors.Is(err, gojwt.ErrTokenUsedBeforeIssued),
		stderrors.Is(err, gojwt.ErrTokenInvalidClaims):
		return KindInvalidClaims
	default:
		return KindMalformedToken
	}
}

// ToAppError converts an authority error into the unified AppError used by
// transport adapters. Unknown errors become internal errors.
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	switch KindOf(err) {
	case KindExpired:
		return apperrors.TokenExpired().WithCause(err)
	case KindMalformedToken:
		return apperrors.TokenMalformed().WithCause(err)
	case KindInvalidSignature:
		return apperrors.InvalidToken().WithCause(err)
	case KindWrongTokenType:
		return apperrors.TokenTypeMismatch().WithCause(err)
	case KindMissingRequiredClaim:
		return apperrors.MissingClaim().WithCause(err)
	case KindInvalidClaims:
		return apperrors.InvalidToken().WithCause(err)
	case KindConfig:
		return apperrors.Internal(err)
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	return apperrors.Internal(err)
}
