package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/organisation/domain"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/zap"
)

type membershipService struct {
	log     *zap.Logger
	members domain.MembershipRepository
	genID   *uuidv7.Generator
	clock   clock.Clock
}

func NewMembershipService(
	log *zap.Logger,
	members domain.MembershipRepository,
	genID *uuidv7.Generator,
	clk clock.Clock,
) domain.MembershipService {
	return &membershipService{
		log:     log.Named("membership.service"),
		members: members,
		genID:   genID,
		clock:   clk,
	}
}

// RoleOf reports the caller's role in the organisation. A missing
// membership row means no access, never a default role.
func (s *membershipService) RoleOf(ctx context.Context, userID, organisationID uuid.UUID) (string, bool, error) {
	member, err := s.members.FindByKey(ctx, userID, organisationID)
	if errors.Is(err, domain.ErrMembershipNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return member.Role, true, nil
}

func (s *membershipService) IsAdministrator(ctx context.Context, userID, organisationID uuid.UUID) (bool, error) {
	role, ok, err := s.RoleOf(ctx, userID, organisationID)
	if err != nil {
		return false, err
	}
	return ok && role == domain.RoleAdministrator, nil
}

func (s *membershipService) Add(ctx context.Context, userID, organisationID uuid.UUID, role string) (*domain.OrganisationMember, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.members.FindByKey(ctx, userID, organisationID); err == nil {
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, domain.ErrMembershipNotFound) {
		return nil, err
	}

	member := &domain.OrganisationMember{
		ID:             s.genID.Generate(),
		OrganisationID: organisationID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       s.clock.Now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyMember
		}
		return nil, err
	}
	return member, nil
}

func (s *membershipService) Remove(ctx context.Context, userID, organisationID uuid.UUID) error {
	return s.members.Delete(ctx, userID, organisationID)
}

// RemoveMember is the administrator-facing removal path. Administrators
// may remove anyone but themselves.
func (s *membershipService) RemoveMember(ctx context.Context, actingUserID, targetUserID, organisationID uuid.UUID) error {
	admin, err := s.IsAdministrator(ctx, actingUserID, organisationID)
	if err != nil {
		return err
	}
	if !admin {
		return domain.ErrForbidden
	}
	if actingUserID == targetUserID {
		return domain.ErrCannotRemoveSelf
	}

	if err := s.members.Delete(ctx, targetUserID, organisationID); err != nil {
		return err
	}

	s.log.Info("member removed",
		zap.String("organisation_id", organisationID.String()),
		zap.String("user_id", targetUserID.String()),
		zap.String("removed_by", actingUserID.String()),
	)
	return nil
}

func (s *membershipService) ListMembers(ctx context.Context, actingUserID, organisationID uuid.UUID) ([]domain.OrganisationMember, error) {
	_, ok, err := s.RoleOf(ctx, actingUserID, organisationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	return s.members.ListByOrganisation(ctx, organisationID)
}
