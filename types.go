package authkit

import "context"

// OTPPurpose identifies which flow a pending one-time passcode belongs to.
// Registration and login OTPs are stored under separate keys so a login
// attempt can never consume a registration challenge.
type OTPPurpose uint8

const (
	// PurposeRegistration is an exported constant or variable used by the authentication engine.
	PurposeRegistration OTPPurpose = iota + 1
	// PurposeLogin is an exported constant or variable used by the authentication engine.
	PurposeLogin
)

func (p OTPPurpose) String() string {
	switch p {
	case PurposeRegistration:
		return "registration"
	case PurposeLogin:
		return "login"
	default:
		return "unknown"
	}
}

// Account is the identity record managed through [AccountStore]. PasswordHash
// is the PHC-encoded Argon2id hash; it is never empty for a persisted account
// and never serialized to callers outside the engine.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    int64
}

// CreateAccountInput is the input for [AccountStore.Create]. Email must
// already be case-normalized (see [NormalizeEmail]) and PasswordHash must be
// a complete PHC-encoded hash; the store never sees plaintext.
type CreateAccountInput struct {
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
}

// AccountStore is the durable persistence collaborator that callers must
// implement to integrate authkit with their user database. Implementations
// must enforce email uniqueness in Create (returning [ErrDuplicateAccount])
// and return [ErrAccountNotFound] from lookups and updates that do not
// resolve. Connection management is the implementation's concern; methods
// must be safe for concurrent use.
type AccountStore interface {
	Create(ctx context.Context, input CreateAccountInput) (Account, error)
	GetByID(ctx context.Context, accountID string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	UpdateName(ctx context.Context, accountID, name string) (Account, error)
	UpdatePasswordHash(ctx context.Context, accountID, newHash string) error
	MarkVerified(ctx context.Context, accountID string) error
}

// Mailer is the outbound email collaborator. Sends are best-effort from the
// engine's perspective: a failed SendOTP during registration leaves the
// account behind (recoverable via [Engine.ResendRegistrationOTP]), while a
// failed SendPasswordReset rolls back the stored reset record.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string, purpose OTPPurpose) error
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// AuthResult is returned by [Engine.Authorize]. It carries the account
// resolved from a verified, unrevoked bearer token.
type AuthResult struct {
	Account Account
}

// VerifyResult is returned by [Engine.VerifyRegistration] and
// [Engine.VerifyLogin] after a successful OTP check. Token is the signed
// bearer credential; Account reflects post-verification state.
type VerifyResult struct {
	Token   string
	Account Account
}

// RegisterRequest is the input for [Engine.Register]. Password is validated
// against the complexity policy before hashing and never persisted or logged
// in plaintext.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}
