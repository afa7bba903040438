package auth

import "errors"

// ErrDuplicate is returned by the repository when the email is taken.
var ErrDuplicate = errors.New("user with this email already exists")

// ErrInvalidCredentials is returned on unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrGenAccessToken is returned when we cannot sign a JWT.
var ErrGenAccessToken = errors.New("failed to generate access token")

// ErrUnsupportedJWTAlg is returned for algorithms other than HS256.
var ErrUnsupportedJWTAlg = errors.New("unsupported JWT algorithm")
