package authz

import "github.com/snipbox/snippet-api/internal/core/domain"

// CredentialState describes what the transport layer found when decoding the
// bearer credential of a request.
type CredentialState int

const (
	// CredentialAbsent means no credential was presented.
	CredentialAbsent CredentialState = iota

	// CredentialValid means the credential verified and has not expired.
	CredentialValid

	// CredentialExpired means the signature verified but the credential is
	// past its expiry.
	CredentialExpired

	// CredentialInvalid means the credential was malformed or its signature
	// did not verify.
	CredentialInvalid
)

func (s CredentialState) String() string {
	switch s {
	case CredentialAbsent:
		return "absent"
	case CredentialValid:
		return "valid"
	case CredentialExpired:
		return "expired"
	case CredentialInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Actor is the decoded identity behind a request. ID and RoleName are only
// meaningful when State is CredentialValid.
type Actor struct {
	State    CredentialState
	ID       int64
	RoleName string
}

func Anonymous() Actor { return Actor{State: CredentialAbsent} }

func Authenticated(id int64, roleName string) Actor {
	return Actor{State: CredentialValid, ID: id, RoleName: roleName}
}

func ExpiredCredential() Actor { return Actor{State: CredentialExpired} }

func InvalidCredential() Actor { return Actor{State: CredentialInvalid} }

// IsAdmin reports whether the actor holds a valid Admin credential.
func (a Actor) IsAdmin() bool {
	return a.State == CredentialValid && a.RoleName == domain.RoleAdmin.String()
}

// Is reports whether the actor is the authenticated account id.
func (a Actor) Is(accountID int64) bool {
	return a.State == CredentialValid && a.ID == accountID
}
