package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/organisation/domain"
	"gorm.io/gorm"
)

type organisationRepo struct {
	db *gorm.DB
}

func NewOrganisationRepository(db *gorm.DB) domain.OrganisationRepository {
	return &organisationRepo{db: db}
}

func (r *organisationRepo) WithTx(tx *gorm.DB) domain.OrganisationRepository {
	return &organisationRepo{db: tx}
}

func (r *organisationRepo) Create(ctx context.Context, org *domain.Organisation) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organisationRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Organisation, error) {
	var org domain.Organisation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrganisationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organisationRepo) FindBySlug(ctx context.Context, slug string) (*domain.Organisation, error) {
	var org domain.Organisation
	err := r.db.WithContext(ctx).Where("slug = ?", strings.TrimSpace(slug)).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrganisationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organisationRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Organisation{}).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *organisationRepo) Search(ctx context.Context, query string) ([]domain.Organisation, error) {
	var orgs []domain.Organisation
	q := r.db.WithContext(ctx).Model(&domain.Organisation{})
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if err := q.Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organisationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.OrganisationListItem, error) {
	var items []domain.OrganisationListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT o.id, o.name, o.slug, m.role, o.created_at
		 FROM organisations o
		 JOIN organisation_members m ON m.organisation_id = o.id
		 WHERE m.user_id = ?
		 ORDER BY o.created_at ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

type membershipRepo struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) domain.MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) WithTx(tx *gorm.DB) domain.MembershipRepository {
	return &membershipRepo{db: tx}
}

func (r *membershipRepo) Create(ctx context.Context, member *domain.OrganisationMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *membershipRepo) FindByKey(ctx context.Context, userID, organisationID uuid.UUID) (*domain.OrganisationMember, error) {
	var member domain.OrganisationMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organisation_id = ?", userID, organisationID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *membershipRepo) Delete(ctx context.Context, userID, organisationID uuid.UUID) error {
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND organisation_id = ?", userID, organisationID).
		Delete(&domain.OrganisationMember{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

func (r *membershipRepo) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]domain.OrganisationMember, error) {
	var members []domain.OrganisationMember
	err := r.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

type invitationRepo struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) domain.InvitationRepository {
	return &invitationRepo{db: db}
}

func (r *invitationRepo) WithTx(tx *gorm.DB) domain.InvitationRepository {
	return &invitationRepo{db: tx}
}

func (r *invitationRepo) Create(ctx context.Context, invitation *domain.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *invitationRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepo) FindActiveByEmailAndOrganisation(ctx context.Context, email string, organisationID uuid.UUID, now time.Time) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND organisation_id = ? AND status = ? AND expires_at > ?",
			strings.TrimSpace(email), organisationID, domain.StatusPending, now).
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// UpdateStatus flips the status only when the current status still
// matches, so two racing transitions resolve to exactly one winner.
func (r *invitationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrInvitationNotPending
	}
	return nil
}

func (r *invitationRepo) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	err := r.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}
