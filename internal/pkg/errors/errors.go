package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// Kind is the stable tag carried by every error surfaced to the HTTP
// boundary. It drives the status mapping and metric labels.
type Kind string

const (
	KindMissingAuth           Kind = "MissingAuth"
	KindContextNotInitialized Kind = "ContextNotInitialized"
	KindTokenExpired          Kind = "TokenExpired"
	KindInvalidAuthHeader     Kind = "InvalidAuthHeader"
	KindInvalidToken          Kind = "InvalidToken"
	KindTokenValidation       Kind = "TokenValidationError"
	KindMalformedIdentifier   Kind = "MalformedIdentifier"
	KindTokenCreation         Kind = "TokenCreationError"
	KindKeyLookupFailed       Kind = "KeyLookupFailed"

	KindInvalidInput            Kind = "InvalidInput"
	KindInvalidCredentials      Kind = "InvalidCredentials"
	KindPasswordConfirmMismatch Kind = "PasswordConfirmMismatch"
	KindUsernameExists          Kind = "UsernameExists"
	KindInvalidDeleteToken      Kind = "InvalidDeleteToken"
	KindSignUpFail              Kind = "SignUpFail"
	KindSignInFail              Kind = "SignInFail"
	KindCreateLinkFail          Kind = "CreateLinkFail"
	KindGetLinksFail            Kind = "GetLinksFail"
	KindClearLinksFail          Kind = "ClearLinksFail"
	KindGenTokenFail            Kind = "GenTokenFail"
	KindGetTokensFail           Kind = "GetTokensFail"
	KindDeleteTokenFail         Kind = "DeleteTokenFail"
	KindInternal                Kind = "Internal"
)

const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeNoAuth         = "NO_AUTH"
	ErrCodeInvalidAuth    = "INVALID_AUTH"
	ErrCodeLoginFailed    = "LOGIN_FAILED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUsernameExists = "USERNAME_EXISTS"
	ErrCodeInternal       = "SERVICE_ERROR"
)

var clientMessages = map[string]string{
	ErrCodeInvalidInput:   "Invalid request",
	ErrCodeNoAuth:         "Authentication required",
	ErrCodeInvalidAuth:    "Invalid credentials",
	ErrCodeLoginFailed:    "Invalid username or password",
	ErrCodeUsernameExists: "Username already taken",
	ErrCodeInternal:       "Internal server error",
}

type mapping struct {
	status int
	code   string
}

var kindMappings = map[Kind]mapping{
	KindMissingAuth:           {http.StatusUnauthorized, ErrCodeNoAuth},
	KindContextNotInitialized: {http.StatusUnauthorized, ErrCodeNoAuth},
	KindTokenExpired:          {http.StatusUnauthorized, ErrCodeInvalidAuth},
	KindInvalidAuthHeader:     {http.StatusBadRequest, ErrCodeInvalidAuth},
	KindInvalidToken:          {http.StatusBadRequest, ErrCodeInvalidAuth},
	KindTokenValidation:       {http.StatusBadRequest, ErrCodeInvalidAuth},
	KindMalformedIdentifier:   {http.StatusBadRequest, ErrCodeInvalidAuth},
	KindTokenCreation:         {http.StatusInternalServerError, ErrCodeInternal},
	KindKeyLookupFailed:       {http.StatusInternalServerError, ErrCodeInternal},

	KindInvalidInput:            {http.StatusBadRequest, ErrCodeInvalidInput},
	KindInvalidCredentials:      {http.StatusBadRequest, ErrCodeLoginFailed},
	KindPasswordConfirmMismatch: {http.StatusBadRequest, ErrCodeInvalidInput},
	KindUsernameExists:          {http.StatusBadRequest, ErrCodeUsernameExists},
	KindInvalidDeleteToken:      {http.StatusBadRequest, ErrCodeInvalidInput},
}

// Error pairs a Kind with the underlying cause. The cause is for logs only
// and never reaches a client.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind, so errors.Is(err, errors.New(KindTokenExpired, nil))
// holds for any wrapped TokenExpired error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps a kind to its HTTP status and client code. Unlisted kinds
// are server faults.
func Status(kind Kind) (int, string) {
	if m, ok := kindMappings[kind]; ok {
		return m.status, m.code
	}
	return http.StatusInternalServerError, ErrCodeInternal
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	RequestID string `json:"req_uuid,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// Recorder is implemented by response writers that want to observe the
// kind of error written through Write, e.g. for request logging.
type Recorder interface {
	RecordError(err error)
}

// Write renders err as a client error body. Only the kind's client code
// and a generic message are exposed.
func Write(w http.ResponseWriter, requestID string, err error) {
	if rec, ok := w.(Recorder); ok {
		rec.RecordError(err)
	}
	status, code := Status(KindOf(err))
	WriteError(w, status, code, clientMessages[code], requestID)
}
