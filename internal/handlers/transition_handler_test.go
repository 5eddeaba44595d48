package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assuredtransfer/aft-request-api/internal/dao"
	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/service"
	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/utils"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var requestTestColumns = []string{
	"REQUEST_ID", "REQUEST_NUMBER", "TRANSFER_DIRECTION", "CLASSIFICATION_LEVEL",
	"TRANSFER_PURPOSE", "SOURCE_SYSTEM", "DEST_SYSTEM", "REQUESTOR_ID", "APPROVER_ID",
	"DTA_ID", "SME_ID", "CUSTODIAN_ID", "STATUS", "APPROVAL_DATA", "TRANSFER_DATA",
	"REJECTION_REASON", "CREATED_TIME", "UPDATED_TIME",
}

func draftRequestRows() *sqlmock.Rows {
	return sqlmock.NewRows(requestTestColumns).AddRow(
		"req-1", "AFT-TEST-000001", "high-to-low", "SECRET", "Mission data sync",
		"SIPR-NET", "NIPR-ENCLAVE", "user-1", nil,
		nil, nil, nil, "draft", []byte("{}"), []byte("{}"),
		nil, int64(1000), int64(1000),
	)
}

// newTransitionTestRouter wires the submit route behind a middleware that
// injects the given actor, standing in for the authentication layer.
func newTransitionTestRouter(t *testing.T, actor workflow.Actor) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := database.NewFromSQLDB(sqlDB, "sqlmock", logger)
	svc := service.NewTransitionService(
		dao.NewRequestDAO(db),
		dao.NewAuditLogDAO(db),
		dao.NewSecurityEventDAO(db),
		dao.NewUserDAO(db),
		db,
		logger,
		false,
	)
	handler := NewTransitionHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		utils.SetActorInContext(c, actor)
		c.Next()
	})
	router.POST("/requests/:requestId/submit", handler.SubmitRequest)
	return router, mock
}

func ownerActor() workflow.Actor {
	return workflow.Actor{
		UserID:     "user-1",
		Name:       "Rachel Requestor",
		Email:      "rachel@example.mil",
		ActingRole: workflow.RoleRequestor,
		Roles:      []workflow.Role{workflow.RoleRequestor},
	}
}

func postSubmit(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/requests/req-1/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitRequest_Succeeds(t *testing.T) {
	router, mock := newTransitionTestRouter(t, ownerActor())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM AFT_REQUEST WHERE REQUEST_ID = \? FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(draftRequestRows())
	mock.ExpectExec(`UPDATE AFT_REQUEST SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO AFT_AUDIT_LOG`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := postSubmit(router, `{"signature":"sig","termsAck":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pending_dao"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRequest_ExplicitFalseTermsAckBindsAndFailsValidation(t *testing.T) {
	router, mock := newTransitionTestRouter(t, ownerActor())

	// The payload must clear JSON binding so the refusal carries the
	// taxonomy's validation code, not a bind error.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM AFT_REQUEST WHERE REQUEST_ID = \? FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(draftRequestRows())
	mock.ExpectRollback()

	w := postSubmit(router, `{"signature":"sig","termsAck":false}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), serviceerror.ValidationError.Code)
	assert.Contains(t, w.Body.String(), "terms")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRequest_MissingSignatureFailsBinding(t *testing.T) {
	router, mock := newTransitionTestRouter(t, ownerActor())

	w := postSubmit(router, `{"termsAck":true}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "binding failures must not touch the database")
}
