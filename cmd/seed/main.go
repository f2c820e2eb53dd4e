// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev admin (admin@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"org-access-control-plane/internal/config"
	"org-access-control-plane/internal/db"
	invitedomain "org-access-control-plane/internal/invite/domain"
	inviterepo "org-access-control-plane/internal/invite/repository"
	membershipdomain "org-access-control-plane/internal/membership/domain"
	membershiprepo "org-access-control-plane/internal/membership/repository"
	orgrepo "org-access-control-plane/internal/organization/repository"
	orgservice "org-access-control-plane/internal/organization/service"
	roledomain "org-access-control-plane/internal/role/domain"
	rolerepo "org-access-control-plane/internal/role/repository"
	teamdomain "org-access-control-plane/internal/team/domain"
	teamrepo "org-access-control-plane/internal/team/repository"
	userdomain "org-access-control-plane/internal/user/domain"
	userrepo "org-access-control-plane/internal/user/repository"
)

const (
	adminEmail   = "admin@example.com"
	managerEmail = "manager@example.com"
	memberEmail  = "member@example.com"
	inviteeEmail = "invitee@example.com"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@example.com exists). Skipping.")
		os.Exit(0)
	}

	now := time.Now().UTC()

	orgs := orgservice.NewService(orgrepo.NewPostgresRepository(conn), orgrepo.NewStore(conn))
	created, err := orgs.CreateOrg(ctx, orgservice.CreateOrgParams{
		Name:         "Acme Dev",
		Slug:         "acme-dev",
		CreatorEmail: adminEmail,
		CreatorName:  "Admin User",
	})
	if err != nil {
		log.Fatalf("create org: %v", err)
	}
	orgID := created.Org.ID

	roles := rolerepo.NewPostgresRepository(conn)
	memberships := membershiprepo.NewPostgresRepository(conn)

	managerID := seedUserWithRole(ctx, users, roles, memberships, orgID, managerEmail, "Manager User", roledomain.NameTeamManager, now)
	memberID := seedUserWithRole(ctx, users, roles, memberships, orgID, memberEmail, "Member User", roledomain.NameMember, now)

	teams := teamrepo.NewPostgresRepository(conn)
	team := &teamdomain.Team{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      "Platform",
		Slug:      "platform",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := teams.Create(ctx, team); err != nil {
		log.Fatalf("create team: %v", err)
	}

	managerRole, err := roles.GetByOrgAndName(ctx, orgID, roledomain.NameTeamManager)
	if err != nil || managerRole == nil {
		log.Fatalf("manager role lookup: %v", err)
	}
	memberRole, err := roles.GetByOrgAndName(ctx, orgID, roledomain.NameMember)
	if err != nil || memberRole == nil {
		log.Fatalf("member role lookup: %v", err)
	}
	for userID, roleID := range map[string]string{managerID: managerRole.ID, memberID: memberRole.ID} {
		if err := memberships.InsertTeamMembershipIfAbsent(ctx, &membershipdomain.TeamMembership{
			ID:        uuid.New().String(),
			OrgID:     orgID,
			TeamID:    team.ID,
			UserID:    userID,
			RoleID:    roleID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			log.Fatalf("create team membership: %v", err)
		}
	}

	invites := inviterepo.NewPostgresRepository(conn)
	inviteToken := uuid.New().String()
	if err := invites.Create(ctx, &invitedomain.Invite{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Email:     inviteeEmail,
		RoleID:    memberRole.ID,
		TeamID:    team.ID,
		Token:     inviteToken,
		ExpiresAt: now.Add(72 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		log.Fatalf("create invite: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Org: acme-dev (%s)\n", orgID)
	fmt.Printf("Admin user: %s (%s)\n", adminEmail, created.CreatorUserID)
	fmt.Printf("Pending invite for %s, token: %s\n", inviteeEmail, inviteToken)
}

func seedUserWithRole(ctx context.Context, users *userrepo.PostgresRepository, roles *rolerepo.PostgresRepository, memberships *membershiprepo.PostgresRepository, orgID, email, name string, roleName roledomain.Name, now time.Time) string {
	u := &userdomain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("create user %s: %v", email, err)
	}
	role, err := roles.GetByOrgAndName(ctx, orgID, roleName)
	if err != nil || role == nil {
		log.Fatalf("role lookup %s: %v", roleName, err)
	}
	if err := memberships.Upsert(ctx, &membershipdomain.Membership{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		UserID:    u.ID,
		RoleID:    role.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		log.Fatalf("create membership %s: %v", email, err)
	}
	return u.ID
}
