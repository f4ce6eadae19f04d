package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuno/ganado-api/internal/service"
	"github.com/vacuno/ganado-api/pkg/storage"
)

func newDownloadFixture(t *testing.T) (*ReportHandler, *storage.SignedURLSigner, *storage.LocalStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)

	reports := service.NewReportService(nil, nil, nil, signer, nil, nil, service.ReportServiceConfig{})
	exports := service.NewExportService(nil, nil, store, nil)
	return NewReportHandler(reports, exports), signer, store
}

func performDownload(h *ReportHandler, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/downloads/"+token, nil)
	c.Params = gin.Params{{Key: "token", Value: token}}
	h.Download(c)
	return w
}

func TestDownloadServesStoredFile(t *testing.T) {
	h, signer, store := newDownloadFixture(t)

	_, err := store.Save("inventory/r1.csv", []byte("identifier\nMX-001\n"))
	require.NoError(t, err)
	token, _, err := signer.Generate("r1", "inventory/r1.csv")
	require.NoError(t, err)

	w := performDownload(h, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MX-001")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `"r1.csv"`)
}

func TestDownloadMissingFile(t *testing.T) {
	h, signer, _ := newDownloadFixture(t)

	// Valid token, but the file was cleaned up after issuance.
	token, _, err := signer.Generate("r1", "inventory/gone.csv")
	require.NoError(t, err)

	w := performDownload(h, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadRejectsBadToken(t *testing.T) {
	h, _, _ := newDownloadFixture(t)

	w := performDownload(h, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
