package config

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/globnft/glob-rewards-api/models"
)

func TestNew(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := New()

	assert.NotEmpty(t, conf)
}

func TestNewParsesAdminWallets(t *testing.T) {
	os.Setenv("ADMIN_WALLETS", "0xAbC, 0xDEF ,,0x123")
	conf := New()

	assert.Equal(t, []string{"0xabc", "0xdef", "0x123"}, conf.AdminWallets)
}

func TestErrorStatus(t *testing.T) {

	ErrorStatus("error it borked", http.StatusBadRequest, httptest.NewRecorder(), errors.New("bad request"))
	assert.True(t, true)
}

func TestLedgerErrorStatusWritesTypedRejection(t *testing.T) {
	rr := httptest.NewRecorder()
	LedgerErrorStatus(rr, models.ErrNotAuthorized())

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeNotAuthorized)
}

func TestLedgerErrorStatusWrapsUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	LedgerErrorStatus(rr, errors.New("connection reset"))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), models.CodeStoreUnavailable)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(1))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(2))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
}

func TestSetLoggerRejectsUnknownEnv(t *testing.T) {
	_, err := setLogger("staging")
	assert.Error(t, err)
}

func TestSplitWalletsEmpty(t *testing.T) {
	assert.Nil(t, splitWallets(""))
}
