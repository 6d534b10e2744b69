package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/organisation/domain"
	"github.com/inspirationparticle/utro/internal/providers/email"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type invitationService struct {
	log         *zap.Logger
	db          *gorm.DB
	invitations domain.InvitationRepository
	members     domain.MembershipRepository
	orgs        domain.OrganisationRepository
	memberships domain.MembershipService
	users       domain.UserLookup
	mailer      email.Provider
	genID       *uuidv7.Generator
	clock       clock.Clock
}

func NewInvitationService(
	log *zap.Logger,
	db *gorm.DB,
	invitations domain.InvitationRepository,
	members domain.MembershipRepository,
	orgs domain.OrganisationRepository,
	memberships domain.MembershipService,
	users domain.UserLookup,
	mailer email.Provider,
	genID *uuidv7.Generator,
	clk clock.Clock,
) domain.InvitationService {
	return &invitationService{
		log:         log.Named("invitation.service"),
		db:          db,
		invitations: invitations,
		members:     members,
		orgs:        orgs,
		memberships: memberships,
		users:       users,
		mailer:      mailer,
		genID:       genID,
		clock:       clk,
	}
}

func (s *invitationService) Create(ctx context.Context, actingUserID uuid.UUID, req domain.CreateInvitationRequest) (*domain.Invitation, error) {
	admin, err := s.memberships.IsAdministrator(ctx, actingUserID, req.OrganisationID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrForbidden
	}

	addr := strings.ToLower(strings.TrimSpace(req.Email))
	if addr == "" {
		return nil, domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if !domain.ValidRole(req.Role) {
		return nil, domain.ErrInvalidRole
	}

	org, err := s.orgs.FindByID(ctx, req.OrganisationID)
	if err != nil {
		return nil, err
	}

	// An existing account with this email that is already a member makes
	// the invitation pointless.
	if userID, err := s.users.FindIDByEmail(ctx, addr); err == nil {
		if _, ok, err := s.memberships.RoleOf(ctx, userID, req.OrganisationID); err != nil {
			return nil, err
		} else if ok {
			return nil, domain.ErrAlreadyMember
		}
	} else if !errors.Is(err, domain.ErrUserLookupNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	if _, err := s.invitations.FindActiveByEmailAndOrganisation(ctx, addr, req.OrganisationID, now); err == nil {
		return nil, domain.ErrActiveInvitationExists
	} else if !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, err
	}

	inviter := actingUserID
	invitation := &domain.Invitation{
		ID:             s.genID.Generate(),
		OrganisationID: req.OrganisationID,
		Email:          addr,
		Role:           req.Role,
		Status:         domain.StatusPending,
		InvitedBy:      &inviter,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.InvitationTTL),
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, err
	}

	s.deliver(ctx, invitation, org.Name)

	s.log.Info("invitation created",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("organisation_id", req.OrganisationID.String()),
	)
	return invitation, nil
}

func (s *invitationService) Accept(ctx context.Context, requesterEmail string, invitationID uuid.UUID) (*domain.Invitation, error) {
	invitation, err := s.guardTransition(ctx, requesterEmail, invitationID)
	if err != nil {
		return nil, err
	}

	userID, err := s.users.FindIDByEmail(ctx, invitation.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserLookupNotFound) {
			return nil, domain.ErrUserLookupNotFound
		}
		return nil, err
	}

	// The membership insert and the status flip commit together. A
	// racing accept loses on the conditional status update.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := &domain.OrganisationMember{
			ID:             s.genID.Generate(),
			OrganisationID: invitation.OrganisationID,
			UserID:         userID,
			Role:           invitation.Role,
			JoinedAt:       s.clock.Now(),
		}
		if err := s.members.WithTx(tx).Create(ctx, member); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyMember
			}
			return err
		}
		return s.invitations.WithTx(tx).UpdateStatus(ctx, invitation.ID, domain.StatusPending, domain.StatusAccepted)
	})
	if err != nil {
		return nil, err
	}

	invitation.Status = domain.StatusAccepted
	s.log.Info("invitation accepted",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return invitation, nil
}

func (s *invitationService) Decline(ctx context.Context, requesterEmail string, invitationID uuid.UUID) (*domain.Invitation, error) {
	invitation, err := s.guardTransition(ctx, requesterEmail, invitationID)
	if err != nil {
		return nil, err
	}

	if err := s.invitations.UpdateStatus(ctx, invitation.ID, domain.StatusPending, domain.StatusDeclined); err != nil {
		return nil, err
	}

	invitation.Status = domain.StatusDeclined
	return invitation, nil
}

// Cancel revokes a pending invitation. Revocation reuses the DECLINED
// status, so a cancelled invitation is indistinguishable from one the
// invitee turned down.
func (s *invitationService) Cancel(ctx context.Context, actingUserID uuid.UUID, invitationID uuid.UUID) (*domain.Invitation, error) {
	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	admin, err := s.memberships.IsAdministrator(ctx, actingUserID, invitation.OrganisationID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrForbidden
	}

	if invitation.Status != domain.StatusPending {
		return nil, domain.ErrInvitationNotPending
	}

	if err := s.invitations.UpdateStatus(ctx, invitation.ID, domain.StatusPending, domain.StatusDeclined); err != nil {
		return nil, err
	}

	invitation.Status = domain.StatusDeclined
	s.log.Info("invitation cancelled",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("cancelled_by", actingUserID.String()),
	)
	return invitation, nil
}

func (s *invitationService) ListForOrganisation(ctx context.Context, actingUserID, organisationID uuid.UUID) ([]domain.Invitation, error) {
	_, ok, err := s.memberships.RoleOf(ctx, actingUserID, organisationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	return s.invitations.ListByOrganisation(ctx, organisationID)
}

// guardTransition applies the shared accept/decline preconditions:
// the invitation exists, it is addressed to the requester, it is still
// pending and it has not expired. Expiry is detected lazily here and
// persisted before the error is returned.
func (s *invitationService) guardTransition(ctx context.Context, requesterEmail string, invitationID uuid.UUID) (*domain.Invitation, error) {
	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(requesterEmail), invitation.Email) {
		return nil, domain.ErrForbidden
	}

	if invitation.Status != domain.StatusPending {
		return nil, domain.ErrInvitationNotPending
	}

	if !invitation.ExpiresAt.After(s.clock.Now()) {
		if err := s.invitations.UpdateStatus(ctx, invitation.ID, domain.StatusPending, domain.StatusExpired); err != nil && !errors.Is(err, domain.ErrInvitationNotPending) {
			return nil, err
		}
		return nil, domain.ErrInvitationExpired
	}

	return invitation, nil
}

func (s *invitationService) deliver(ctx context.Context, invitation *domain.Invitation, orgName string) {
	subject := fmt.Sprintf("You're invited to join %s", orgName)
	body := fmt.Sprintf(
		"<p>You have been invited to join <strong>%s</strong> as %s.</p><p>The invitation expires on %s.</p>",
		orgName, invitation.Role, invitation.ExpiresAt.Format("2 January 2006"),
	)
	if err := s.mailer.Send(ctx, []string{invitation.Email}, subject, body); err != nil {
		s.log.Warn("failed to deliver invitation email",
			zap.String("invitation_id", invitation.ID.String()),
			zap.Error(err),
		)
	}
}
