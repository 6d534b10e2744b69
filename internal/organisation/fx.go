package organisation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	authdomain "github.com/inspirationparticle/utro/internal/auth/domain"
	"github.com/inspirationparticle/utro/internal/organisation/domain"
	"github.com/inspirationparticle/utro/internal/organisation/repository"
	"github.com/inspirationparticle/utro/internal/organisation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organisation.service",
	fx.Provide(repository.NewOrganisationRepository),
	fx.Provide(repository.NewMembershipRepository),
	fx.Provide(repository.NewInvitationRepository),
	fx.Provide(newUserLookup),
	fx.Provide(service.NewOrganisationService),
	fx.Provide(service.NewMembershipService),
	fx.Provide(service.NewInvitationService),
)

type userLookup struct {
	users authdomain.Repository
}

func newUserLookup(users authdomain.Repository) domain.UserLookup {
	return &userLookup{users: users}
}

func (l *userLookup) FindIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	user, err := l.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return uuid.Nil, domain.ErrUserLookupNotFound
		}
		return uuid.Nil, err
	}
	return user.ID, nil
}
