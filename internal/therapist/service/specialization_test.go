package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/therapist/domain"
	"github.com/inspirationparticle/utro/internal/therapist/repository"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newCatalog(t *testing.T) (domain.SpecializationService, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Specialization{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := NewSpecializationService(zap.NewNop(), repository.NewSpecializationRepository(dbConn))
	return svc, dbConn
}

func TestSpecializationCatalogListAndSearch(t *testing.T) {
	svc, dbConn := newCatalog(t)
	seedSpecialization(t, dbConn, "Anxiety Disorders", "Zaburzenia lękowe", "clinical")
	seedSpecialization(t, dbConn, "Couples Therapy", "Terapia par", "relational")
	retired := domain.Specialization{
		ID:       uuid.New(),
		NameEng:  "Hypnotherapy",
		NamePl:   "Hipnoterapia",
		Category: "clinical",
		IsActive: false,
	}
	if err := dbConn.Create(&retired).Error; err != nil {
		t.Fatalf("failed to seed retired entry: %v", err)
	}

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 active entries, got %d", len(all))
	}

	clinical, err := svc.List(context.Background(), "clinical")
	if err != nil {
		t.Fatalf("failed to list by category: %v", err)
	}
	if len(clinical) != 1 || clinical[0].NameEng != "Anxiety Disorders" {
		t.Fatalf("expected only the active clinical entry, got %+v", clinical)
	}

	// Search matches either language, case-insensitively.
	matches, err := svc.Search(context.Background(), "TERAPIA")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(matches) != 1 || matches[0].NameEng != "Couples Therapy" {
		t.Fatalf("expected the Polish name to match, got %+v", matches)
	}

	// A blank query falls back to the full active list.
	matches, err = svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("failed to search blank: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected full list for blank query, got %d", len(matches))
	}
}

func TestSpecializationCategories(t *testing.T) {
	svc, dbConn := newCatalog(t)
	seedSpecialization(t, dbConn, "Anxiety Disorders", "Zaburzenia lękowe", "clinical")
	seedSpecialization(t, dbConn, "Trauma", "Trauma", "clinical")
	seedSpecialization(t, dbConn, "Couples Therapy", "Terapia par", "relational")

	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(categories) != 2 || categories[0] != "clinical" || categories[1] != "relational" {
		t.Fatalf("expected distinct sorted categories, got %v", categories)
	}
}

func TestSpecializationGetByIDNotFound(t *testing.T) {
	svc, _ := newCatalog(t)
	if _, err := svc.GetByID(context.Background(), uuid.New()); err != domain.ErrSpecializationNotFound {
		t.Fatalf("expected ErrSpecializationNotFound, got %v", err)
	}
}
