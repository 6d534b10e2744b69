package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	authdomain "github.com/inspirationparticle/utro/internal/auth/domain"
	authrepo "github.com/inspirationparticle/utro/internal/auth/repository"
	authservice "github.com/inspirationparticle/utro/internal/auth/service"
	"github.com/inspirationparticle/utro/internal/auth/token"
	"github.com/inspirationparticle/utro/internal/authorization"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/config"
	offerdomain "github.com/inspirationparticle/utro/internal/offer/domain"
	offerrepo "github.com/inspirationparticle/utro/internal/offer/repository"
	offerservice "github.com/inspirationparticle/utro/internal/offer/service"
	orgdomain "github.com/inspirationparticle/utro/internal/organisation/domain"
	orgrepo "github.com/inspirationparticle/utro/internal/organisation/repository"
	orgservice "github.com/inspirationparticle/utro/internal/organisation/service"
	"github.com/inspirationparticle/utro/internal/providers/email"
	therapistdomain "github.com/inspirationparticle/utro/internal/therapist/domain"
	therapistrepo "github.com/inspirationparticle/utro/internal/therapist/repository"
	therapistservice "github.com/inspirationparticle/utro/internal/therapist/service"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&orgdomain.Organisation{},
		&orgdomain.OrganisationMember{},
		&orgdomain.Invitation{},
		&therapistdomain.Therapist{},
		&therapistdomain.Specialization{},
		&therapistdomain.TherapistSpecialization{},
		&therapistdomain.TherapistEducation{},
		&therapistdomain.TherapistCertification{},
		&offerdomain.Offer{},
	))

	log := zap.NewNop()
	genID := uuidv7.New()
	clk := clock.NewSystemClock()

	enforcer, err := authorization.NewEnforcer(dbConn)
	require.NoError(t, err)
	authz := authorization.NewService(authorization.Params{
		DB:       dbConn,
		Log:      log,
		Enforcer: enforcer,
	})

	users := authrepo.New(dbConn)
	authSvc := authservice.New(log, users, token.NewManager("test-secret", time.Hour), genID, clk)

	orgs := orgrepo.NewOrganisationRepository(dbConn)
	members := orgrepo.NewMembershipRepository(dbConn)
	invitations := orgrepo.NewInvitationRepository(dbConn)
	organisationSvc := orgservice.NewOrganisationService(log, dbConn, orgs, members, genID, clk)
	membershipSvc := orgservice.NewMembershipService(log, members, genID, clk)
	invitationSvc := orgservice.NewInvitationService(
		log, dbConn, invitations, members, orgs, membershipSvc,
		userLookup{users: users}, &email.NoOpProvider{}, genID, clk,
	)

	specializations := therapistrepo.NewSpecializationRepository(dbConn)
	therapistSvc := therapistservice.NewService(log, therapistrepo.NewRepository(dbConn), specializations, authz, genID, clk)
	specializationSvc := therapistservice.NewSpecializationService(log, specializations)
	offerSvc := offerservice.NewService(log, offerrepo.NewRepository(dbConn), authz, genID, clk)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin:               engine,
		Cfg:               config.Config{},
		Authsvc:           authSvc,
		AuthzSvc:          authz,
		OrganisationSvc:   organisationSvc,
		MembershipSvc:     membershipSvc,
		InvitationSvc:     invitationSvc,
		TherapistSvc:      therapistSvc,
		SpecializationSvc: specializationSvc,
		OfferSvc:          offerSvc,
	})
}

type userLookup struct {
	users authdomain.Repository
}

func (l userLookup) FindIDByEmail(ctx context.Context, emailAddr string) (uuid.UUID, error) {
	user, err := l.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if err == authdomain.ErrUserNotFound {
			return uuid.Nil, orgdomain.ErrUserLookupNotFound
		}
		return uuid.Nil, err
	}
	return user.ID, nil
}

func doJSON(t *testing.T, srv *Server, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, srv *Server, username, emailAddr string) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/v1/auth/register", "", gin.H{
		"username": username,
		"email":    emailAddr,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/v1/auth/login", "", gin.H{
		"username": username,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var parsed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed.Token
}

func TestAuthAndOrganisationFlow(t *testing.T) {
	srv := newTestServer(t)

	founderToken := registerAndLogin(t, srv, "founder", "founder@example.com")
	inviteeToken := registerAndLogin(t, srv, "invitee", "invitee@example.com")

	rec := doJSON(t, srv, http.MethodGet, "/v1/auth/me", founderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Unauthenticated requests never reach the handlers.
	rec = doJSON(t, srv, http.MethodPost, "/v1/organisations", "", gin.H{"name": "Clinic"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/v1/organisations", founderToken, gin.H{
		"name":        "Mind Clinic",
		"description": "Therapy practice",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var org struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &org))
	require.Equal(t, "mind-clinic", org.Slug)

	// Creating an organisation makes the creator its administrator.
	rec = doJSON(t, srv, http.MethodGet, "/v1/organisations/"+org.ID+"/members", founderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/v1/organisations/"+org.ID+"/invitations", founderToken, gin.H{
		"email": "invitee@example.com",
		"role":  orgdomain.RoleMember,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var invitation struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invitation))
	require.Equal(t, orgdomain.StatusPending, invitation.Status)

	// Only the invited address may accept.
	rec = doJSON(t, srv, http.MethodPost, "/v1/invitations/"+invitation.ID+"/accept", founderToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/v1/invitations/"+invitation.ID+"/accept", inviteeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/v1/organisations/"+org.ID+"/members", inviteeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Accepting twice conflicts with the settled state.
	rec = doJSON(t, srv, http.MethodPost, "/v1/invitations/"+invitation.ID+"/accept", inviteeToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrganisationLookupBySlug(t *testing.T) {
	srv := newTestServer(t)
	tokenStr := registerAndLogin(t, srv, "owner", "owner@example.com")

	rec := doJSON(t, srv, http.MethodPost, "/v1/organisations", tokenStr, gin.H{"name": "Quiet Harbour"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/organisations/quiet-harbour", tokenStr, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/organisations/no-such-slug", tokenStr, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "taken", "taken@example.com")

	rec := doJSON(t, srv, http.MethodPost, "/v1/auth/register", "", gin.H{
		"username": "taken",
		"email":    "other@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}
