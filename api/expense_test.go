package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"expensetracker/config"
	"expensetracker/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func newTestFileStore(t *testing.T) (*service.FileStore, string) {
	dir := t.TempDir()
	files, err := service.NewFileStore(&config.UploadConfig{
		Dir:               dir,
		AllowedExtensions: []string{"pdf", "png"},
		MaxSizeMB:         5,
	})
	require.NoError(t, err)
	return files, dir
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func expenseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "amount", "date", "description", "category_id", "user_id", "created_at", "updated_at"})
}

func attachmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "filename", "filepath", "expense_id", "uploaded_at"})
}

func TestExpenseHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expenses`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `expenses` WHERE user_id = .* ORDER BY date DESC, id DESC").
		WithArgs(1).
		WillReturnRows(expenseRows().
			AddRow(2, "Chair", 120.0, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), "", nil, 1, time.Now(), time.Now()).
			AddRow(1, "Coffee", 4.5, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "", nil, 1, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT .* FROM `attachments`").
		WillReturnRows(attachmentRows())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses", NewExpenseHandler(nil).List)

	req := httptest.NewRequest("GET", "/expenses", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(1), data["pages"])
	expenses := data["expenses"].([]interface{})
	require.Len(t, expenses, 2)
	first := expenses[0].(map[string]interface{})
	assert.Equal(t, "Chair", first["title"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(3, 1).
		WillReturnRows(expenseRows().
			AddRow(3, "Coffee", 4.5, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Morning coffee", nil, 1, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT .* FROM `attachments`").
		WillReturnRows(attachmentRows())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler(nil).Create)

	body := `{"title":"Coffee","amount":4.5,"date":"2024-01-15","description":"Morning coffee"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var expense map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))
	assert.Equal(t, "Coffee", expense["title"])
	assert.Equal(t, 4.5, expense["amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_MultipartAttachment(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	files, dir := newTestFileStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO `attachments`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(5, 1).
		WillReturnRows(expenseRows().
			AddRow(5, "Printer", 89.99, time.Now(), "", nil, 1, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT .* FROM `attachments`").
		WillReturnRows(attachmentRows().
			AddRow(1, "receipt.pdf", dir+"/receipt.pdf", 5, time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler(files).Create)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Printer", "amount": "89.99"},
		"attachment", "receipt.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest("POST", "/expenses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var expense map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))
	attachments := expense["attachments"].([]interface{})
	require.Len(t, attachments, 1)
	assert.Equal(t, "receipt.pdf", attachments[0].(map[string]interface{})["filename"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_RejectedAttachment(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	files, dir := newTestFileStore(t)

	// The row insert happens before the file write; the rejected file
	// rolls it back and the client gets a 400, not a 500.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectRollback()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler(files).Create)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Printer", "amount": "89.99"},
		"attachment", "malware.exe", []byte("MZ"))
	req := httptest.NewRequest("POST", "/expenses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "file extension not allowed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Update_MultipartAttachment(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	files, dir := newTestFileStore(t)

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(3, 1).
		WillReturnRows(expenseRows().
			AddRow(3, "Chair", 120.0, time.Now(), "", nil, 1, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT .* FROM `attachments`").
		WillReturnRows(attachmentRows())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `attachments`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(3, 1).
		WillReturnRows(expenseRows().
			AddRow(3, "Chair", 120.0, time.Now(), "", nil, 1, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT .* FROM `attachments`").
		WillReturnRows(attachmentRows().
			AddRow(1, "invoice.pdf", dir+"/invoice.pdf", 3, time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/expenses/:id", NewExpenseHandler(files).Update)

	body, contentType := multipartBody(t, nil, "attachment", "invoice.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest("PUT", "/expenses/3", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var expense map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))
	attachments := expense["attachments"].([]interface{})
	require.Len(t, attachments, 1)
	assert.Equal(t, "invoice.pdf", attachments[0].(map[string]interface{})["filename"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_InvalidDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/expenses", NewExpenseHandler(nil).Create)

	body := `{"title":"Coffee","amount":4.5,"date":"15/01/2024"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// The expense exists but belongs to another user: indistinguishable
	// from a missing row.
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(5, 1).
		WillReturnRows(expenseRows())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/expenses/:id", NewExpenseHandler(nil).Get)

	req := httptest.NewRequest("GET", "/expenses/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "record not found", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(3, 1).
		WillReturnRows(expenseRows().
			AddRow(3, "Chair", 120.0, time.Now(), "", nil, 1, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT .* FROM `attachments`").
		WillReturnRows(attachmentRows())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/expenses/:id", NewExpenseHandler(nil).Delete)

	req := httptest.NewRequest("DELETE", "/expenses/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "expense deleted", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
