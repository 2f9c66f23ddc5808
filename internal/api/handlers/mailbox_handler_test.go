package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/swaraj0405/klias-campus-backend/internal/api/response"
	apperrors "github.com/swaraj0405/klias-campus-backend/internal/errors"
	"github.com/swaraj0405/klias-campus-backend/internal/models"
	"github.com/swaraj0405/klias-campus-backend/internal/repository"
	"github.com/swaraj0405/klias-campus-backend/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MailboxHandlerTestSuite is the test suite for MailboxHandler
type MailboxHandlerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	db      *gorm.DB
	service services.MailboxService
	handler *MailboxHandler
}

// SetupSuite runs once before all tests
func (s *MailboxHandlerTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.User{}, &models.Email{})
	require.NoError(s.T(), err)
	s.db = db
}

// TearDownSuite runs once after all tests
func (s *MailboxHandlerTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test - clean up data and create test fixtures
func (s *MailboxHandlerTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM emails")
	s.db.Exec("DELETE FROM users")

	users := []models.User{
		{ID: "user-1", Name: "Alex Johnson", Username: "alexj", Email: "alex@test.com", Role: models.RoleStudent},
		{ID: "user-2", Name: "Emily Reed", Username: "ereed", Email: "emily@test.com", Role: models.RoleTeacher},
	}
	for i := range users {
		require.NoError(s.T(), s.db.Create(&users[i]).Error)
	}

	s.echo = echo.New()
	s.service = services.NewMailboxService(
		repository.NewEmailRepository(s.db),
		repository.NewUserRepository(s.db),
		nil,
	)
	s.handler = NewMailboxHandler(s.service)
}

// TestMailboxHandlerTestSuite runs the test suite
func TestMailboxHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MailboxHandlerTestSuite))
}

// Helper function to create a test context acting as the given user
func (s *MailboxHandlerTestSuite) createContext(userID, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(UserIDContextKey, userID)
	return c, rec
}

func (s *MailboxHandlerTestSuite) sendTestEmail(subject string) string {
	c, rec := s.createContext("user-2", http.MethodPost, "/api/emails",
		`{"recipient_ids": ["user-1"], "subject": "`+subject+`", "body": "hello"}`)

	require.NoError(s.T(), s.handler.Send(c))
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	emails, err := s.service.List(c.Request().Context(), "user-1", models.FolderInbox, subject, models.ReadFilterAll)
	require.NoError(s.T(), err)
	require.Len(s.T(), emails, 1)
	return emails[0].ID
}

// ==================== Send Tests ====================

func (s *MailboxHandlerTestSuite) TestSend_ValidInput() {
	c, rec := s.createContext("user-2", http.MethodPost, "/api/emails",
		`{"recipient_ids": ["user-1"], "subject": "Grades", "body": "Your grades are up."}`)

	err := s.handler.Send(c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)

	var resp response.APIResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
}

func (s *MailboxHandlerTestSuite) TestSend_NoRecipients() {
	c, rec := s.createContext("user-2", http.MethodPost, "/api/emails",
		`{"recipient_ids": [], "subject": "Grades", "body": "x"}`)

	err := s.handler.Send(c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)

	var resp response.ErrorResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(s.T(), apperrors.CodeValidation, resp.Code)
}

// ==================== List Tests ====================

func (s *MailboxHandlerTestSuite) TestList_InvalidFolder() {
	c, rec := s.createContext("user-1", http.MethodGet, "/api/emails/archive", "")
	c.SetParamNames("folder")
	c.SetParamValues("archive")

	err := s.handler.List(c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *MailboxHandlerTestSuite) TestList_Inbox() {
	s.sendTestEmail("Hello")

	c, rec := s.createContext("user-1", http.MethodGet, "/api/emails/inbox", "")
	c.SetParamNames("folder")
	c.SetParamValues("inbox")

	err := s.handler.List(c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "Hello")
}

// ==================== Transition Tests ====================

func (s *MailboxHandlerTestSuite) TestDelete_FromInboxConflicts() {
	emailID := s.sendTestEmail("Keep")

	c, rec := s.createContext("user-1", http.MethodDelete, "/api/emails/id/"+emailID+"?confirm=true", "")
	c.SetParamNames("id")
	c.SetParamValues(emailID)

	err := s.handler.Delete(c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusConflict, rec.Code)

	var resp response.ErrorResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(s.T(), apperrors.CodeInvalidTransition, resp.Code)
}

func (s *MailboxHandlerTestSuite) TestDelete_WithoutConfirmation() {
	emailID := s.sendTestEmail("Gone")

	trashCtx, _ := s.createContext("user-1", http.MethodPost, "/api/emails/id/"+emailID+"/trash", "")
	trashCtx.SetParamNames("id")
	trashCtx.SetParamValues(emailID)
	require.NoError(s.T(), s.handler.Trash(trashCtx))

	c, rec := s.createContext("user-1", http.MethodDelete, "/api/emails/id/"+emailID, "")
	c.SetParamNames("id")
	c.SetParamValues(emailID)

	err := s.handler.Delete(c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusConflict, rec.Code)

	var resp response.ErrorResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(s.T(), apperrors.CodeConfirmationRequired, resp.Code)
}

func (s *MailboxHandlerTestSuite) TestTrashAndRestore() {
	emailID := s.sendTestEmail("Cycle")

	c, rec := s.createContext("user-1", http.MethodPost, "/api/emails/id/"+emailID+"/trash", "")
	c.SetParamNames("id")
	c.SetParamValues(emailID)
	require.NoError(s.T(), s.handler.Trash(c))
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	c, rec = s.createContext("user-1", http.MethodPost, "/api/emails/id/"+emailID+"/restore", "")
	c.SetParamNames("id")
	c.SetParamValues(emailID)
	require.NoError(s.T(), s.handler.Restore(c))
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	email, err := s.service.Get(c.Request().Context(), "user-1", emailID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.FolderInbox, email.Folder)
}

// ==================== Unread Count Tests ====================

func (s *MailboxHandlerTestSuite) TestUnreadCount() {
	s.sendTestEmail("One")

	c, rec := s.createContext("user-1", http.MethodGet, "/api/emails/unread-count", "")

	err := s.handler.UnreadCount(c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"unread":1`)
}
