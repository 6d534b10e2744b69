package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inspirationparticle/utro/internal/clock"
	"github.com/inspirationparticle/utro/internal/organisation/domain"
	"github.com/inspirationparticle/utro/internal/organisation/repository"
	"github.com/inspirationparticle/utro/internal/providers/email"
	"github.com/inspirationparticle/utro/internal/uuidv7"
	"github.com/inspirationparticle/utro/pkg/db"
	"go.uber.org/zap"
)

type fakeUsers struct {
	byEmail map[string]uuid.UUID
}

func (f *fakeUsers) FindIDByEmail(ctx context.Context, addr string) (uuid.UUID, error) {
	id, ok := f.byEmail[strings.ToLower(strings.TrimSpace(addr))]
	if !ok {
		return uuid.Nil, domain.ErrUserLookupNotFound
	}
	return id, nil
}

type testEnv struct {
	orgs        domain.Service
	memberships domain.MembershipService
	invitations domain.InvitationService
	users       *fakeUsers
	clock       *clock.FakeClock
	genID       *uuidv7.Generator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&domain.Organisation{},
		&domain.OrganisationMember{},
		&domain.Invitation{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	genID := uuidv7.New()
	users := &fakeUsers{byEmail: map[string]uuid.UUID{}}

	orgRepo := repository.NewOrganisationRepository(dbConn)
	memberRepo := repository.NewMembershipRepository(dbConn)
	inviteRepo := repository.NewInvitationRepository(dbConn)

	memberships := NewMembershipService(log, memberRepo, genID, clk)
	return &testEnv{
		orgs:        NewOrganisationService(log, dbConn, orgRepo, memberRepo, genID, clk),
		memberships: memberships,
		invitations: NewInvitationService(log, dbConn, inviteRepo, memberRepo, orgRepo, memberships, users, &email.NoOpProvider{}, genID, clk),
		users:       users,
		clock:       clk,
		genID:       genID,
	}
}

func (e *testEnv) addUser(email string) uuid.UUID {
	id := e.genID.Generate()
	e.users.byEmail[strings.ToLower(email)] = id
	return id
}

func TestCreateOrganisationGrantsAdministrator(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser("a@x.com")

	org, err := env.orgs.Create(context.Background(), creator, domain.CreateOrganisationRequest{
		Name:        "Acme",
		Description: "directory of things",
	})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}
	if org.Slug != "acme" {
		t.Fatalf("expected slug acme, got %s", org.Slug)
	}
	if !uuidv7.IsWellFormed(org.ID) {
		t.Fatalf("expected version 7 id, got %s", org.ID)
	}

	role, ok, err := env.memberships.RoleOf(context.Background(), creator, org.ID)
	if err != nil {
		t.Fatalf("failed to resolve role: %v", err)
	}
	if !ok || role != domain.RoleAdministrator {
		t.Fatalf("expected administrator role, got %q (member=%v)", role, ok)
	}
}

func TestCreateOrganisationDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser("a@x.com")

	if _, err := env.orgs.Create(context.Background(), creator, domain.CreateOrganisationRequest{Name: "Acme"}); err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}
	if _, err := env.orgs.Create(context.Background(), creator, domain.CreateOrganisationRequest{Name: "acme"}); err != domain.ErrOrganisationExists {
		t.Fatalf("expected ErrOrganisationExists, got %v", err)
	}
}

func TestCreateOrganisationSlugCollision(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser("a@x.com")

	// Distinct names, identical slug.
	if _, err := env.orgs.Create(context.Background(), creator, domain.CreateOrganisationRequest{Name: "Acme"}); err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}
	if _, err := env.orgs.Create(context.Background(), creator, domain.CreateOrganisationRequest{Name: "Acme!"}); err != domain.ErrOrganisationExists {
		t.Fatalf("expected ErrOrganisationExists, got %v", err)
	}
}

func TestRoleOfFailClosed(t *testing.T) {
	env := newTestEnv(t)

	role, ok, err := env.memberships.RoleOf(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || role != "" {
		t.Fatalf("expected no membership, got %q", role)
	}

	admin, err := env.memberships.IsAdministrator(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin {
		t.Fatal("expected administrator check to fail closed")
	}
}

func TestAddMemberDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	creator := env.addUser("a@x.com")
	other := env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), creator, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	if _, err := env.memberships.Add(context.Background(), other, org.ID, domain.RoleMember); err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
	if _, err := env.memberships.Add(context.Background(), other, org.ID, domain.RoleMember); err != domain.ErrAlreadyMember {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestInvitationLifecycleAccept(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	invitee := env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	invitation, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "b@x.com",
		Role:           domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}
	if invitation.Status != domain.StatusPending {
		t.Fatalf("expected PENDING, got %s", invitation.Status)
	}
	if want := invitation.CreatedAt.Add(domain.InvitationTTL); !invitation.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, invitation.ExpiresAt)
	}

	// A second invitation for the same pair while the first is active.
	if _, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "B@X.com",
		Role:           domain.RoleMember,
	}); err != domain.ErrActiveInvitationExists {
		t.Fatalf("expected ErrActiveInvitationExists, got %v", err)
	}

	accepted, err := env.invitations.Accept(context.Background(), "B@x.com", invitation.ID)
	if err != nil {
		t.Fatalf("failed to accept: %v", err)
	}
	if accepted.Status != domain.StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", accepted.Status)
	}

	role, ok, err := env.memberships.RoleOf(context.Background(), invitee, org.ID)
	if err != nil {
		t.Fatalf("failed to resolve role: %v", err)
	}
	if !ok || role != domain.RoleMember {
		t.Fatalf("expected member role after accept, got %q (member=%v)", role, ok)
	}

	// Accepting again is an invalid transition.
	if _, err := env.invitations.Accept(context.Background(), "b@x.com", invitation.ID); err != domain.ErrInvitationNotPending {
		t.Fatalf("expected ErrInvitationNotPending, got %v", err)
	}
}

func TestInvitationAcceptWrongEmail(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	invitation, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "b@x.com",
		Role:           domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	if _, err := env.invitations.Accept(context.Background(), "mallory@x.com", invitation.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestInvitationLazyExpiry(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	invitation, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "b@x.com",
		Role:           domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	env.clock.Advance(domain.InvitationTTL + time.Hour)

	if _, err := env.invitations.Accept(context.Background(), "b@x.com", invitation.ID); err != domain.ErrInvitationExpired {
		t.Fatalf("expected ErrInvitationExpired, got %v", err)
	}

	// The expiry was persisted, so a later decline sees a terminal state.
	if _, err := env.invitations.Decline(context.Background(), "b@x.com", invitation.ID); err != domain.ErrInvitationNotPending {
		t.Fatalf("expected ErrInvitationNotPending, got %v", err)
	}

	list, err := env.invitations.ListForOrganisation(context.Background(), admin, org.ID)
	if err != nil {
		t.Fatalf("failed to list invitations: %v", err)
	}
	if len(list) != 1 || list[0].Status != domain.StatusExpired {
		t.Fatalf("expected one EXPIRED invitation, got %+v", list)
	}
}

func TestInvitationCancelIdempotence(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	outsider := env.addUser("c@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	invitation, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "b@x.com",
		Role:           domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	if _, err := env.invitations.Cancel(context.Background(), outsider, invitation.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin cancel, got %v", err)
	}

	cancelled, err := env.invitations.Cancel(context.Background(), admin, invitation.ID)
	if err != nil {
		t.Fatalf("failed to cancel: %v", err)
	}
	if cancelled.Status != domain.StatusDeclined {
		t.Fatalf("expected DECLINED, got %s", cancelled.Status)
	}

	if _, err := env.invitations.Cancel(context.Background(), admin, invitation.ID); err != domain.ErrInvitationNotPending {
		t.Fatalf("expected ErrInvitationNotPending on second cancel, got %v", err)
	}
}

func TestInvitationAcceptAlreadyMemberConflict(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	invitee := env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	invitation, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "b@x.com",
		Role:           domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	// The invitee joins through another path while the invitation is
	// still pending.
	if _, err := env.memberships.Add(context.Background(), invitee, org.ID, domain.RoleMember); err != nil {
		t.Fatalf("failed to add member: %v", err)
	}

	if _, err := env.invitations.Accept(context.Background(), "b@x.com", invitation.ID); err != domain.ErrAlreadyMember {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// The failed accept rolled back, so the invitation is still pending.
	list, err := env.invitations.ListForOrganisation(context.Background(), admin, org.ID)
	if err != nil {
		t.Fatalf("failed to list invitations: %v", err)
	}
	if len(list) != 1 || list[0].Status != domain.StatusPending {
		t.Fatalf("expected one PENDING invitation, got %+v", list)
	}
}

func TestInvitationCreateAlreadyMember(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	member := env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}
	if _, err := env.memberships.Add(context.Background(), member, org.ID, domain.RoleMember); err != nil {
		t.Fatalf("failed to add member: %v", err)
	}

	if _, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "b@x.com",
		Role:           domain.RoleMember,
	}); err != domain.ErrAlreadyMember {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestInvitationCreateRequiresAdministrator(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	member := env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}
	if _, err := env.memberships.Add(context.Background(), member, org.ID, domain.RoleMember); err != nil {
		t.Fatalf("failed to add member: %v", err)
	}

	if _, err := env.invitations.Create(context.Background(), member, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "c@x.com",
		Role:           domain.RoleMember,
	}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRemoveMemberSelfRemovalForbidden(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	member := env.addUser("b@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}
	if _, err := env.memberships.Add(context.Background(), member, org.ID, domain.RoleMember); err != nil {
		t.Fatalf("failed to add member: %v", err)
	}

	if err := env.memberships.RemoveMember(context.Background(), admin, admin, org.ID); err != domain.ErrCannotRemoveSelf {
		t.Fatalf("expected ErrCannotRemoveSelf, got %v", err)
	}

	if err := env.memberships.RemoveMember(context.Background(), member, admin, org.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin removal, got %v", err)
	}

	if err := env.memberships.RemoveMember(context.Background(), admin, member, org.ID); err != nil {
		t.Fatalf("failed to remove member: %v", err)
	}
	if err := env.memberships.RemoveMember(context.Background(), admin, member, org.ID); err != domain.ErrMembershipNotFound {
		t.Fatalf("expected ErrMembershipNotFound, got %v", err)
	}
}

func TestListMembersRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")
	outsider := env.addUser("c@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	if _, err := env.memberships.ListMembers(context.Background(), outsider, org.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	members, err := env.memberships.ListMembers(context.Background(), admin, org.ID)
	if err != nil {
		t.Fatalf("failed to list members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected one member, got %d", len(members))
	}
}

func TestListForOrganisationNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser("a@x.com")

	org, err := env.orgs.Create(context.Background(), admin, domain.CreateOrganisationRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organisation: %v", err)
	}

	first, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "b@x.com",
		Role:           domain.RoleMember,
	})
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	env.clock.Advance(time.Minute)

	second, err := env.invitations.Create(context.Background(), admin, domain.CreateInvitationRequest{
		OrganisationID: org.ID,
		Email:          "c@x.com",
		Role:           domain.RoleAdministrator,
	})
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	list, err := env.invitations.ListForOrganisation(context.Background(), admin, org.ID)
	if err != nil {
		t.Fatalf("failed to list invitations: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected two invitations, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatal("expected newest invitation first")
	}
}
