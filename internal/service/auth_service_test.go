package service

import (
	"context"
	"io"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/assuredtransfer/aft-request-api/internal/config"
	"github.com/assuredtransfer/aft-request-api/internal/dao"
	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
)

var userTestColumns = []string{
	"USER_ID", "EMAIL", "FULL_NAME", "PASSWORD_HASH", "PRIMARY_ROLE", "ACTIVE", "CREATED_TIME",
}

func newAuthTestService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := database.NewFromSQLDB(sqlDB, "sqlmock", logger)
	cfg := &config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "aft-request-api",
	}
	return NewAuthService(dao.NewUserDAO(db), cfg, logger), mock
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func expectUserByEmail(mock sqlmock.Sqlmock, email, userID, hash, role string, active bool) {
	mock.ExpectQuery(`SELECT (.+) FROM AFT_USER WHERE EMAIL = \?`).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userTestColumns).AddRow(
			userID, email, "Test User", hash, role, active, int64(1000),
		))
}

func expectAdditionalRoles(mock sqlmock.Sqlmock, userID string, roles ...string) {
	rows := sqlmock.NewRows([]string{"ROLE"})
	for _, r := range roles {
		rows.AddRow(r)
	}
	mock.ExpectQuery(`SELECT ROLE FROM AFT_USER_ROLE WHERE USER_ID = \?`).
		WithArgs(userID).
		WillReturnRows(rows)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, mock := newAuthTestService(t)
	hash := hashPassword(t, "correct horse")

	expectUserByEmail(mock, "rachel@example.mil", "user-1", hash, "requestor", true)
	expectAdditionalRoles(mock, "user-1", "dta")

	resp, svcErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "rachel@example.mil",
		Password: "correct horse",
	})

	require.Nil(t, svcErr)
	assert.Equal(t, "user-1", resp.UserID)
	assert.ElementsMatch(t, []string{"requestor", "dta"}, resp.Roles)
	assert.Greater(t, resp.ExpiresAt, time.Now().UnixMilli())

	token, err := jwt.Parse(resp.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithIssuer("aft-request-api"))
	require.NoError(t, err)
	require.True(t, token.Valid)
	subject, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock := newAuthTestService(t)
	hash := hashPassword(t, "correct horse")

	expectUserByEmail(mock, "rachel@example.mil", "user-1", hash, "requestor", true)

	_, svcErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "rachel@example.mil",
		Password: "battery staple",
	})

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.UnauthorizedError.Code, svcErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc, mock := newAuthTestService(t)

	mock.ExpectQuery(`SELECT (.+) FROM AFT_USER WHERE EMAIL = \?`).
		WithArgs("ghost@example.mil").
		WillReturnRows(sqlmock.NewRows(userTestColumns))

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@example.mil",
		Password: "whatever",
	})
	require.NotNil(t, unknownErr)

	hash := hashPassword(t, "correct horse")
	expectUserByEmail(mock, "rachel@example.mil", "user-1", hash, "requestor", true)

	_, wrongErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "rachel@example.mil",
		Password: "wrong",
	})
	require.NotNil(t, wrongErr)

	assert.Equal(t, unknownErr.Code, wrongErr.Code)
	assert.Equal(t, unknownErr.ErrorDescription, wrongErr.ErrorDescription)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, mock := newAuthTestService(t)
	hash := hashPassword(t, "correct horse")

	expectUserByEmail(mock, "rachel@example.mil", "user-1", hash, "requestor", false)

	_, svcErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "rachel@example.mil",
		Password: "correct horse",
	})

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.UnauthorizedError.Code, svcErr.Code)
}

func TestResolveToken_RoundTrip(t *testing.T) {
	svc, mock := newAuthTestService(t)
	hash := hashPassword(t, "correct horse")

	expectUserByEmail(mock, "rachel@example.mil", "user-1", hash, "requestor", true)
	expectAdditionalRoles(mock, "user-1")

	resp, svcErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "rachel@example.mil",
		Password: "correct horse",
	})
	require.Nil(t, svcErr)

	mock.ExpectQuery(`SELECT (.+) FROM AFT_USER WHERE USER_ID = \?`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userTestColumns).AddRow(
			"user-1", "rachel@example.mil", "Test User", hash, "requestor", true, int64(1000),
		))
	expectAdditionalRoles(mock, "user-1", "dao")

	user, roles, svcErr := svc.ResolveToken(context.Background(), resp.Token)
	require.Nil(t, svcErr)
	assert.Equal(t, "user-1", user.UserID)
	assert.ElementsMatch(t, []workflow.Role{workflow.RoleRequestor, workflow.RoleDAO}, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveToken_Garbage(t *testing.T) {
	svc, _ := newAuthTestService(t)

	_, _, svcErr := svc.ResolveToken(context.Background(), "not.a.token")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.UnauthorizedError.Code, svcErr.Code)
}

func TestResolveToken_WrongSigningKey(t *testing.T) {
	svc, _ := newAuthTestService(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"iss": "aft-request-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("attacker-key"))
	require.NoError(t, err)

	_, _, svcErr := svc.ResolveToken(context.Background(), signed)

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.UnauthorizedError.Code, svcErr.Code)
}

func TestListUsersByRole_RequiresDTAOrAdmin(t *testing.T) {
	svc, _ := newAuthTestService(t)

	_, svcErr := svc.ListUsersByRole(context.Background(), roleActor("user-1", workflow.RoleRequestor), "sme")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.ForbiddenError.Code, svcErr.Code)
}

func TestListUsersByRole_UnknownRole(t *testing.T) {
	svc, _ := newAuthTestService(t)

	_, svcErr := svc.ListUsersByRole(context.Background(), roleActor("dta-1", workflow.RoleDTA), "wizard")

	require.NotNil(t, svcErr)
	assert.Equal(t, serviceerror.ValidationError.Code, svcErr.Code)
}

func TestListUsersByRole_ReturnsActiveHolders(t *testing.T) {
	svc, mock := newAuthTestService(t)

	mock.ExpectQuery(`SELECT DISTINCT (.+) FROM AFT_USER u LEFT JOIN AFT_USER_ROLE r`).
		WithArgs("sme", "sme").
		WillReturnRows(sqlmock.NewRows(userTestColumns).
			AddRow("sme-1", "sam@example.mil", "Sam SME", "hash", "sme", true, int64(1000)).
			AddRow("sme-2", "sasha@example.mil", "Sasha SME", "hash", "dta", true, int64(1000)))

	users, svcErr := svc.ListUsersByRole(context.Background(), roleActor("dta-1", workflow.RoleDTA), "sme")

	require.Nil(t, svcErr)
	require.Len(t, users, 2)
	assert.Equal(t, "sme-1", users[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
