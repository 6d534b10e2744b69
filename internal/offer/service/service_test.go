package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/authorization"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/offer/domain"
	"github.com/inspirationparticle/utro/internal/offer/repository"
	orgdomain "github.com/inspirationparticle/utro/internal/organisation/domain"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Offer{}, &orgdomain.OrganisationMember{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	enforcer, err := authorization.NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}
	authz := authorization.NewService(authorization.Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		Enforcer: enforcer,
	})

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(zap.NewNop(), repository.NewRepository(dbConn), authz, uuidv7.New(), clk)
	return svc, dbConn
}

func addMember(t *testing.T, dbConn *gorm.DB, userID, orgID uuid.UUID, role string) {
	t.Helper()
	member := orgdomain.OrganisationMember{
		ID:             uuid.New(),
		OrganisationID: orgID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
	if err := dbConn.Create(&member).Error; err != nil {
		t.Fatalf("failed to insert membership: %v", err)
	}
}

func TestCreateOfferRequiresAdministrator(t *testing.T) {
	svc, dbConn := newTestService(t)
	admin, member, orgID := uuid.New(), uuid.New(), uuid.New()
	addMember(t, dbConn, admin, orgID, orgdomain.RoleAdministrator)
	addMember(t, dbConn, member, orgID, orgdomain.RoleMember)

	if _, err := svc.Create(context.Background(), member, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "Individual therapy",
	}); err != authorization.ErrForbidden {
		t.Fatalf("expected ErrForbidden for member, got %v", err)
	}

	offer, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "Individual therapy",
		NamePl:         "Terapia indywidualna",
	})
	if err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}
	if !uuidv7.IsWellFormed(offer.ID) {
		t.Fatalf("expected version 7 id, got %s", offer.ID)
	}
}

func TestCreateOfferDuplicateName(t *testing.T) {
	svc, dbConn := newTestService(t)
	admin, orgID := uuid.New(), uuid.New()
	addMember(t, dbConn, admin, orgID, orgdomain.RoleAdministrator)

	if _, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "Group therapy",
	}); err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "group THERAPY",
	}); err != domain.ErrOfferExists {
		t.Fatalf("expected ErrOfferExists, got %v", err)
	}
}

func TestUpdateAndDeleteOffer(t *testing.T) {
	svc, dbConn := newTestService(t)
	admin, outsider, orgID := uuid.New(), uuid.New(), uuid.New()
	addMember(t, dbConn, admin, orgID, orgdomain.RoleAdministrator)

	offer, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "Couples therapy",
	})
	if err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}

	newName := "Couples counselling"
	if _, err := svc.Update(context.Background(), outsider, offer.ID, domain.UpdateOfferRequest{NameEng: &newName}); err != authorization.ErrForbidden {
		t.Fatalf("expected ErrForbidden for outsider update, got %v", err)
	}

	updated, err := svc.Update(context.Background(), admin, offer.ID, domain.UpdateOfferRequest{NameEng: &newName})
	if err != nil {
		t.Fatalf("failed to update offer: %v", err)
	}
	if updated.NameEng != newName {
		t.Fatalf("expected updated name, got %s", updated.NameEng)
	}

	if err := svc.Delete(context.Background(), outsider, offer.ID); err != authorization.ErrForbidden {
		t.Fatalf("expected ErrForbidden for outsider delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, offer.ID); err != nil {
		t.Fatalf("failed to delete offer: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), offer.ID); err != domain.ErrOfferNotFound {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestSearchOffers(t *testing.T) {
	svc, dbConn := newTestService(t)
	admin, orgID := uuid.New(), uuid.New()
	addMember(t, dbConn, admin, orgID, orgdomain.RoleAdministrator)

	if _, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "Mindfulness workshop",
		DescriptionEng: "weekly group sessions",
	}); err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "Individual therapy",
	}); err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}

	results, err := svc.Search(context.Background(), &orgID, "mindfulness")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(results) != 1 || results[0].NameEng != "Mindfulness workshop" {
		t.Fatalf("expected one matching offer, got %+v", results)
	}

	all, err := svc.ListByOrganisation(context.Background(), orgID)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected two offers, got %d", len(all))
	}
}

func TestGetOfferImage(t *testing.T) {
	svc, dbConn := newTestService(t)
	admin, orgID := uuid.New(), uuid.New()
	addMember(t, dbConn, admin, orgID, orgdomain.RoleAdministrator)

	offer, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID:       orgID,
		NameEng:              "Art therapy",
		ProfileImage:         []byte{0x89, 0x50, 0x4e, 0x47},
		ProfileImageMimeType: "image/png",
	})
	if err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}

	image, err := svc.GetImage(context.Background(), offer.ID)
	if err != nil {
		t.Fatalf("failed to get image: %v", err)
	}
	if image.MimeType != "image/png" || len(image.Data) != 4 {
		t.Fatalf("unexpected image: %+v", image)
	}

	bare, err := svc.Create(context.Background(), admin, domain.CreateOfferRequest{
		OrganisationID: orgID,
		NameEng:        "Music therapy",
	})
	if err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}
	if _, err := svc.GetImage(context.Background(), bare.ID); err != domain.ErrImageNotFound {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}
