package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

const (
	admin = "Admin"
	user  = "User"
)

var (
	allActors = []Actor{
		Anonymous(),
		ExpiredCredential(),
		InvalidCredential(),
		Authenticated(1, user),
		Authenticated(2, user),
		Authenticated(1, admin),
		Authenticated(3, "Moderator"),
	}

	allActions = []Action{
		CreateAccount(user),
		CreateAccount(admin),
		CreateAccount("Moderator"),
		ReadAccount(),
		UpdateAccount(FieldEmail),
		UpdateAccount(FieldRole, FieldUsername),
		DeleteAccount(),
		CreateRole(),
		ReadRole(),
		UpdateRole(),
		DeleteRole(),
		CreateSnippet(),
		ReadSnippet(),
		UpdateSnippet(),
		DeleteSnippet(),
		RefreshCredential(),
	}

	allTargets = []Target{
		{},
		{AccountID: 1},
		{AccountID: 2},
		{OwnerID: 1},
		{OwnerID: 2},
		{RoleName: user, RoleImmutable: true},
		{RoleName: "Moderator"},
	}
)

// ---------------------------------------------------------------------------
// Credential state
// ---------------------------------------------------------------------------

func TestDecide_PublicActionsIgnoreCredentialState(t *testing.T) {
	public := []Action{ReadAccount(), ReadRole(), ReadSnippet(), CreateAccount(user)}
	for _, actor := range allActors {
		for _, action := range public {
			for _, target := range allTargets {
				d := Decide(actor, action, target)
				assert.Truef(t, d.Allowed(), "%s by %s credential must be allowed", action, actor.State)
			}
		}
	}
}

func TestDecide_AnonymousReadSnippetAlwaysAllowed(t *testing.T) {
	for _, target := range []Target{{}, {OwnerID: 1}, {OwnerID: 999}} {
		assert.Equal(t, Allow, Decide(Anonymous(), ReadSnippet(), target).Effect)
	}
}

func TestDecide_CredentialStates(t *testing.T) {
	cases := []struct {
		name   string
		actor  Actor
		reason Reason
	}{
		{"absent", Anonymous(), ReasonUnauthenticated},
		{"expired", ExpiredCredential(), ReasonTokenExpired},
		{"invalid", InvalidCredential(), ReasonUnauthenticated},
	}

	private := []Action{
		CreateAccount(admin), UpdateAccount(FieldEmail), DeleteAccount(),
		CreateRole(), UpdateRole(), DeleteRole(),
		CreateSnippet(), UpdateSnippet(), DeleteSnippet(), RefreshCredential(),
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, action := range private {
				d := Decide(tc.actor, action, Target{AccountID: 1, OwnerID: 1})
				assert.Equal(t, Deny, d.Effect, action.String())
				assert.Equal(t, tc.reason, d.Reason, action.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

func TestDecide_CreateAccount(t *testing.T) {
	assert.True(t, Decide(Authenticated(1, admin), CreateAccount(admin), Target{}).Allowed())
	assert.True(t, Decide(Authenticated(1, admin), CreateAccount("Moderator"), Target{}).Allowed())

	d := Decide(Authenticated(2, user), CreateAccount(admin), Target{})
	assert.Equal(t, Deny, d.Effect)
	assert.Equal(t, ReasonForbidden, d.Reason)

	d = Decide(Authenticated(2, user), CreateAccount("Moderator"), Target{})
	assert.Equal(t, ReasonForbidden, d.Reason)

	d = Decide(Anonymous(), CreateAccount(admin), Target{})
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestDecide_DeleteAccount_NonAdminOtherIsForbidden(t *testing.T) {
	for _, role := range []string{user, "Moderator", ""} {
		for _, targetID := range []int64{2, 3, 100} {
			d := Decide(Authenticated(1, role), DeleteAccount(), Target{AccountID: targetID})
			assert.Equal(t, Deny, d.Effect)
			assert.Equal(t, ReasonForbidden, d.Reason)
		}
	}
}

func TestDecide_DeleteAccount_AdminSelfIsForbidden(t *testing.T) {
	for _, id := range []int64{1, 7, 42} {
		d := Decide(Authenticated(id, admin), DeleteAccount(), Target{AccountID: id})
		assert.Equal(t, Deny, d.Effect)
		assert.Equal(t, ReasonForbidden, d.Reason)
	}
}

func TestDecide_DeleteAccount_Allowed(t *testing.T) {
	assert.True(t, Decide(Authenticated(1, admin), DeleteAccount(), Target{AccountID: 2}).Allowed())
	assert.True(t, Decide(Authenticated(2, user), DeleteAccount(), Target{AccountID: 2}).Allowed())
}

func TestDecide_UpdateAccount(t *testing.T) {
	cases := []struct {
		name    string
		actor   Actor
		action  Action
		target  Target
		effect  Effect
		reason  Reason
		dropped []Field
	}{
		{"user self email", Authenticated(1, user), UpdateAccount(FieldEmail), Target{AccountID: 1}, Allow, ReasonNone, nil},
		{"user other", Authenticated(1, user), UpdateAccount(FieldEmail), Target{AccountID: 2}, Deny, ReasonForbidden, nil},
		{"user self role dropped", Authenticated(1, user), UpdateAccount(FieldRole, FieldEmail), Target{AccountID: 1}, Allow, ReasonNone, []Field{FieldRole}},
		{"admin other role kept", Authenticated(1, admin), UpdateAccount(FieldRole), Target{AccountID: 2}, Allow, ReasonNone, nil},
		{"admin self role dropped", Authenticated(1, admin), UpdateAccount(FieldRole, FieldUsername), Target{AccountID: 1}, Allow, ReasonNone, []Field{FieldRole}},
		{"custom role other", Authenticated(3, "Moderator"), UpdateAccount(FieldRole), Target{AccountID: 2}, Deny, ReasonForbidden, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.actor, tc.action, tc.target)
			assert.Equal(t, tc.effect, d.Effect)
			assert.Equal(t, tc.reason, d.Reason)
			assert.Equal(t, tc.dropped, d.Dropped)
		})
	}
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

func TestDecide_RoleManagement(t *testing.T) {
	for _, action := range []Action{CreateRole(), UpdateRole(), DeleteRole()} {
		d := Decide(Authenticated(2, user), action, Target{RoleName: "Moderator"})
		assert.Equal(t, ReasonForbidden, d.Reason, action.String())

		d = Decide(Authenticated(1, admin), action, Target{RoleName: "Moderator"})
		assert.True(t, d.Allowed(), action.String())
	}
}

func TestDecide_AdminUpdateSystemRoleIsNotFound(t *testing.T) {
	d := Decide(Authenticated(1, admin), UpdateRole(), Target{RoleName: "User"})
	assert.Equal(t, Deny, d.Effect)
	assert.Equal(t, ReasonNotFound, d.Reason)
	assert.ErrorIs(t, d.Err(), domain.ErrRoleNotFound)

	d = Decide(Authenticated(1, admin), DeleteRole(), Target{RoleName: "Legacy", RoleImmutable: true})
	assert.Equal(t, ReasonNotFound, d.Reason)
}

// ---------------------------------------------------------------------------
// Snippets
// ---------------------------------------------------------------------------

func TestDecide_CreateSnippetForcesOwner(t *testing.T) {
	d := Decide(Authenticated(5, user), CreateSnippet(), Target{OwnerID: 9})
	require.True(t, d.Allowed())
	assert.Equal(t, int64(5), d.OwnerID)
}

func TestDecide_UpdateSnippetNonOwnerIsNotFound(t *testing.T) {
	// User 1 editing a snippet owned by user 2.
	d := Decide(Authenticated(1, user), UpdateSnippet(), Target{OwnerID: 2})
	assert.Equal(t, Deny, d.Effect)
	assert.Equal(t, ReasonNotFound, d.Reason)
	assert.ErrorIs(t, d.Err(), domain.ErrSnippetNotFound)

	for _, actor := range allActors {
		if actor.State != CredentialValid || actor.ID == 2 || actor.IsAdmin() {
			continue
		}
		d := Decide(actor, UpdateSnippet(), Target{OwnerID: 2})
		assert.NotEqual(t, ReasonForbidden, d.Reason)
		assert.Equal(t, ReasonNotFound, d.Reason)
	}
}

func TestDecide_SnippetAdminAsymmetry(t *testing.T) {
	d := Decide(Authenticated(1, admin), UpdateSnippet(), Target{OwnerID: 2})
	assert.Equal(t, ReasonNotFound, d.Reason, "admins cannot edit snippets they do not own")

	d = Decide(Authenticated(1, admin), DeleteSnippet(), Target{OwnerID: 2})
	assert.True(t, d.Allowed(), "admins can delete any snippet")
}

func TestDecide_SnippetOwner(t *testing.T) {
	assert.True(t, Decide(Authenticated(2, user), UpdateSnippet(), Target{OwnerID: 2}).Allowed())
	assert.True(t, Decide(Authenticated(2, user), DeleteSnippet(), Target{OwnerID: 2}).Allowed())
	assert.Equal(t, ReasonNotFound, Decide(Authenticated(1, user), DeleteSnippet(), Target{OwnerID: 2}).Reason)
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

func TestDecide_RefreshCredential(t *testing.T) {
	assert.True(t, Decide(Authenticated(2, user), RefreshCredential(), Target{}).Allowed())
	assert.Equal(t, ReasonTokenExpired, Decide(ExpiredCredential(), RefreshCredential(), Target{}).Reason)
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func TestDecide_Idempotent(t *testing.T) {
	for _, actor := range allActors {
		for _, action := range allActions {
			for _, target := range allTargets {
				first := Decide(actor, action, target)
				for i := 0; i < 3; i++ {
					assert.Equal(t, first, Decide(actor, action, target))
				}
			}
		}
	}
}

func TestDecision_Err(t *testing.T) {
	cases := []struct {
		d    Decision
		want error
	}{
		{Decision{Effect: Allow}, nil},
		{Decision{Effect: Deny, Reason: ReasonUnauthenticated}, domain.ErrUnauthenticated},
		{Decision{Effect: Deny, Reason: ReasonTokenExpired}, domain.ErrTokenExpired},
		{Decision{Effect: Deny, Reason: ReasonForbidden}, domain.ErrForbidden},
		{Decision{Effect: Deny, Reason: ReasonNotFound, Kind: KindDeleteSnippet}, domain.ErrSnippetNotFound},
		{Decision{Effect: Deny, Reason: ReasonNotFound, Kind: KindUpdateRole}, domain.ErrRoleNotFound},
		{Decision{Effect: Deny, Reason: ReasonNotFound, Kind: KindUpdateAccount}, domain.ErrAccountNotFound},
	}
	for _, tc := range cases {
		if tc.want == nil {
			assert.NoError(t, tc.d.Err())
			continue
		}
		assert.ErrorIs(t, tc.d.Err(), tc.want)
	}
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "not_found", ReasonNotFound.String())
	assert.Equal(t, "update_snippet", UpdateSnippet().String())
	assert.Equal(t, "expired", CredentialExpired.String())
}
