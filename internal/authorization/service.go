// Package authorization is the policy layer in front of every
// organisation-scoped mutation. Role resolution is fail-closed and all
// denials look identical to the caller, whether the user has no
// membership at all or merely lacks the required role.
package authorization

import (
	"context"
	"errors"
)

const (
	ObjectOrganisation = "organisation"
	ObjectMember       = "member"
	ObjectInvitation   = "invitation"
	ObjectOffer        = "offer"
	ObjectTherapist    = "therapist"
)

const (
	ActionView      = "view"
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionPublish   = "publish"
	ActionUnpublish = "unpublish"
	ActionRemove    = "remove"
	ActionCancel    = "cancel"
)

var (
	ErrInvalidActor        = errors.New("invalid_actor")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidObject       = errors.New("invalid_object")
	ErrInvalidAction       = errors.New("invalid_action")
	ErrForbidden           = errors.New("forbidden")
)

type Service interface {
	Authorize(ctx context.Context, actor string, orgID string, object string, action string) error
}
