package authz

import "github.com/snipbox/snippet-api/internal/core/domain"

// ActionKind enumerates every operation the engine rules on.
type ActionKind int

const (
	KindCreateAccount ActionKind = iota
	KindReadAccount
	KindUpdateAccount
	KindDeleteAccount
	KindCreateRole
	KindReadRole
	KindUpdateRole
	KindDeleteRole
	KindCreateSnippet
	KindReadSnippet
	KindUpdateSnippet
	KindDeleteSnippet
	KindRefreshCredential
)

var kindNames = map[ActionKind]string{
	KindCreateAccount:     "create_account",
	KindReadAccount:       "read_account",
	KindUpdateAccount:     "update_account",
	KindDeleteAccount:     "delete_account",
	KindCreateRole:        "create_role",
	KindReadRole:          "read_role",
	KindUpdateRole:        "update_role",
	KindDeleteRole:        "delete_role",
	KindCreateSnippet:     "create_snippet",
	KindReadSnippet:       "read_snippet",
	KindUpdateSnippet:     "update_snippet",
	KindDeleteSnippet:     "delete_snippet",
	KindRefreshCredential: "refresh_credential",
}

func (k ActionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Field names an account attribute an UpdateAccount action wants to change.
type Field string

const (
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
	FieldRole     Field = "role"
)

// Action is a tagged union: AsRole is only read for KindCreateAccount and
// Changes only for KindUpdateAccount.
type Action struct {
	Kind    ActionKind
	AsRole  string
	Changes []Field
}

func (a Action) String() string { return a.Kind.String() }

func (a Action) changes(f Field) bool {
	for _, c := range a.Changes {
		if c == f {
			return true
		}
	}
	return false
}

func CreateAccount(asRole string) Action {
	return Action{Kind: KindCreateAccount, AsRole: asRole}
}

func ReadAccount() Action { return Action{Kind: KindReadAccount} }

func UpdateAccount(changes ...Field) Action {
	return Action{Kind: KindUpdateAccount, Changes: changes}
}

func DeleteAccount() Action     { return Action{Kind: KindDeleteAccount} }
func CreateRole() Action        { return Action{Kind: KindCreateRole} }
func ReadRole() Action          { return Action{Kind: KindReadRole} }
func UpdateRole() Action        { return Action{Kind: KindUpdateRole} }
func DeleteRole() Action        { return Action{Kind: KindDeleteRole} }
func CreateSnippet() Action     { return Action{Kind: KindCreateSnippet} }
func ReadSnippet() Action       { return Action{Kind: KindReadSnippet} }
func UpdateSnippet() Action     { return Action{Kind: KindUpdateSnippet} }
func DeleteSnippet() Action     { return Action{Kind: KindDeleteSnippet} }
func RefreshCredential() Action { return Action{Kind: KindRefreshCredential} }

// public reports whether the action is allowed regardless of credential state.
func (a Action) public() bool {
	switch a.Kind {
	case KindReadAccount, KindReadRole, KindReadSnippet:
		return true
	case KindCreateAccount:
		return a.AsRole == domain.RoleUser.String()
	default:
		return false
	}
}

// Target is the plain data the engine needs about the resource being acted
// on. Services fill only the fields relevant to the action.
type Target struct {
	AccountID     int64
	RoleName      string
	RoleImmutable bool
	OwnerID       int64
}
