package services

import (
	"context"
	"testing"
	"time"

	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTeamService(t *testing.T) (*TeamService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewTeamService(db, NewActivityService(db), 3), mock
}

func teamColumns() []string {
	return []string{"id", "name", "description", "owner_id", "created_at", "updated_at"}
}

func TestTeamService_Create(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()

	mock.ExpectQuery(`SELECT is_admin FROM users`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"is_admin"}).AddRow(false))

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	teamRows := pgxmock.NewRows(teamColumns()).
		AddRow(teamID, "Eng", "engineering", ownerID, now, now)
	mock.ExpectQuery(`INSERT INTO teams`).
		WithArgs("Eng", "engineering", ownerID).
		WillReturnRows(teamRows)

	mock.ExpectExec(`INSERT INTO team_members`).
		WithArgs(teamID, ownerID, models.RoleOwner).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectCommit()

	mock.ExpectExec(`INSERT INTO activity_logs`).
		WithArgs(ownerID, "team_created", "team", &teamID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	team, err := svc.Create(ctx, "Eng", "engineering", ownerID)

	require.NoError(t, err)
	assert.Equal(t, teamID, team.ID)
	assert.Equal(t, models.RoleOwner, team.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_QuotaExceeded(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT is_admin FROM users`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"is_admin"}).AddRow(false))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, "Fourth", "", ownerID)

	assert.ErrorIs(t, err, ErrTeamQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Create_AdminBypassesQuota(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()

	// The stored flag decides the exemption, so no quota count query
	// follows for admins.
	mock.ExpectQuery(`SELECT is_admin FROM users`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"is_admin"}).AddRow(true))

	teamRows := pgxmock.NewRows(teamColumns()).
		AddRow(teamID, "Fourth", "", ownerID, now, now)
	mock.ExpectQuery(`INSERT INTO teams`).
		WithArgs("Fourth", "", ownerID).
		WillReturnRows(teamRows)

	mock.ExpectExec(`INSERT INTO team_members`).
		WithArgs(teamID, ownerID, models.RoleOwner).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectCommit()

	mock.ExpectExec(`INSERT INTO activity_logs`).
		WithArgs(ownerID, "team_created", "team", &teamID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	team, err := svc.Create(ctx, "Fourth", "", ownerID)

	require.NoError(t, err)
	assert.Equal(t, teamID, team.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Join(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT name FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Eng"))

	memberRows := pgxmock.NewRows([]string{"id", "team_id", "user_id", "role", "joined_at"}).
		AddRow(uuid.New(), teamID, userID, models.RoleMember, now)
	mock.ExpectQuery(`INSERT INTO team_members`).
		WithArgs(teamID, userID, models.RoleMember).
		WillReturnRows(memberRows)

	mock.ExpectExec(`INSERT INTO activity_logs`).
		WithArgs(userID, "team_joined", "team", &teamID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	member, err := svc.Join(ctx, teamID, userID)

	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Join_TeamNotFound(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()

	mock.ExpectQuery(`SELECT name FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Join(ctx, teamID, uuid.New())

	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Leave_OwnerCannotLeave(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT name, owner_id FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "owner_id"}).AddRow("Eng", ownerID))

	err := svc.Leave(ctx, teamID, ownerID)

	assert.ErrorIs(t, err, ErrOwnerCannotLeave)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Leave_NotMember(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	ownerID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT name, owner_id FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "owner_id"}).AddRow("Eng", ownerID))

	mock.ExpectExec(`DELETE FROM team_members`).
		WithArgs(teamID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Leave(ctx, teamID, userID)

	assert.ErrorIs(t, err, ErrNotMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Kick_CannotKickOwner(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	ownerID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT role FROM team_members`).
		WithArgs(teamID, actorID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(models.RoleAdmin))

	mock.ExpectQuery(`SELECT name, owner_id FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "owner_id"}).AddRow("Eng", ownerID))

	err := svc.Kick(ctx, teamID, ownerID, actorID)

	assert.ErrorIs(t, err, ErrCannotKickOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Kick_RequiresRole(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT role FROM team_members`).
		WithArgs(teamID, actorID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(models.RoleMember))

	err := svc.Kick(ctx, teamID, uuid.New(), actorID)

	assert.ErrorIs(t, err, ErrInsufficientRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Kick_ActorNotMember(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT role FROM team_members`).
		WithArgs(teamID, actorID).
		WillReturnError(pgx.ErrNoRows)

	err := svc.Kick(ctx, teamID, uuid.New(), actorID)

	assert.ErrorIs(t, err, ErrInsufficientRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Kick_RoleLookupFailure(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT role FROM team_members`).
		WithArgs(teamID, actorID).
		WillReturnError(assert.AnError)

	err := svc.Kick(ctx, teamID, uuid.New(), actorID)

	// A query failure surfaces as an error, not as a permission denial.
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientRole)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Disband_HasFiles(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectBegin()

	mock.ExpectQuery(`SELECT name, owner_id FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "owner_id"}).AddRow("Eng", ownerID))

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectRollback()

	err := svc.Disband(ctx, teamID, ownerID)

	assert.ErrorIs(t, err, ErrTeamHasFiles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Disband(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectBegin()

	mock.ExpectQuery(`SELECT name, owner_id FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "owner_id"}).AddRow("Eng", ownerID))

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectExec(`DELETE FROM team_members WHERE team_id`).
		WithArgs(teamID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	mock.ExpectExec(`DELETE FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	mock.ExpectCommit()

	mock.ExpectExec(`INSERT INTO activity_logs`).
		WithArgs(ownerID, "team_deleted", "team", &teamID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := svc.Disband(ctx, teamID, ownerID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_Disband_NotOwner(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT name, owner_id FROM teams WHERE id`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "owner_id"}).AddRow("Eng", uuid.New()))
	mock.ExpectRollback()

	err := svc.Disband(ctx, teamID, uuid.New())

	assert.ErrorIs(t, err, ErrNotTeamOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_CountUserTeams(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	count, err := svc.CountUserTeams(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_GetDetails_NotMember(t *testing.T) {
	svc, mock := setupTeamService(t)
	ctx := context.Background()
	teamID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`FROM teams t`).
		WithArgs(teamID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetDetails(ctx, teamID, userID)

	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
