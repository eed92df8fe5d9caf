// Package authz decides whether an actor may perform an action on a target.
//
// Decide is a pure function: it performs no I/O, holds no state and may be
// called concurrently from any number of requests. Services load the target,
// call Decide, and only then touch the store.
//
// Rules are evaluated in order and the first match wins:
//
//  0. Reading accounts, roles and snippets and registering a User account
//     are public, whatever the credential state.
//  1. No credential: deny as unauthenticated.
//  2. Expired credential: deny as token expired. Malformed or badly signed:
//     deny as unauthenticated.
//  3. Creating an account with any role but User requires Admin.
//  4. Updating or deleting an account requires Admin or self.
//  5. An Admin may not delete their own account.
//  6. A role change is kept only for an Admin acting on someone else; for
//     anyone else it is dropped and the rest of the update is allowed.
//  7. Role management requires Admin. System roles cannot be renamed or
//     deleted and are reported as not found.
//  8. Creating a snippet requires a credential; the actor becomes the owner.
//  9. Only the owner may update a snippet. The owner or an Admin may delete
//     it. Anyone else is told the snippet does not exist.
//  10. Refreshing a credential is allowed for any valid credential.
package authz

import "github.com/snipbox/snippet-api/internal/core/domain"

// Decide evaluates action by actor against target.
func Decide(actor Actor, action Action, target Target) Decision {
	if action.public() {
		return allow(action)
	}

	switch actor.State {
	case CredentialValid:
	case CredentialExpired:
		return deny(action, ReasonTokenExpired)
	default:
		return deny(action, ReasonUnauthenticated)
	}

	switch action.Kind {
	case KindCreateAccount:
		if !actor.IsAdmin() {
			return deny(action, ReasonForbidden)
		}
		return allow(action)

	case KindUpdateAccount:
		self := actor.Is(target.AccountID)
		if !actor.IsAdmin() && !self {
			return deny(action, ReasonForbidden)
		}
		d := allow(action)
		if action.changes(FieldRole) && (!actor.IsAdmin() || self) {
			d.Dropped = []Field{FieldRole}
		}
		return d

	case KindDeleteAccount:
		self := actor.Is(target.AccountID)
		if !actor.IsAdmin() && !self {
			return deny(action, ReasonForbidden)
		}
		if actor.IsAdmin() && self {
			return deny(action, ReasonForbidden)
		}
		return allow(action)

	case KindCreateRole:
		if !actor.IsAdmin() {
			return deny(action, ReasonForbidden)
		}
		return allow(action)

	case KindUpdateRole, KindDeleteRole:
		if !actor.IsAdmin() {
			return deny(action, ReasonForbidden)
		}
		if target.RoleImmutable || domain.IsSystemRole(target.RoleName) {
			return deny(action, ReasonNotFound)
		}
		return allow(action)

	case KindCreateSnippet:
		d := allow(action)
		d.OwnerID = actor.ID
		return d

	case KindUpdateSnippet:
		// Admins are not exempt here, unlike delete.
		if !actor.Is(target.OwnerID) {
			return deny(action, ReasonNotFound)
		}
		return allow(action)

	case KindDeleteSnippet:
		if !actor.Is(target.OwnerID) && !actor.IsAdmin() {
			return deny(action, ReasonNotFound)
		}
		return allow(action)

	case KindRefreshCredential:
		return allow(action)
	}

	return deny(action, ReasonForbidden)
}

func allow(action Action) Decision {
	return Decision{Effect: Allow, Reason: ReasonNone, Kind: action.Kind}
}

func deny(action Action, reason Reason) Decision {
	return Decision{Effect: Deny, Reason: reason, Kind: action.Kind}
}
