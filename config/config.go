package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/models"
)

// Config holds the project config values
type Config struct {
	URL                string
	DatabaseName       string
	BaseURL            string
	Port               string
	AdminWallets       []string
	CronSecret         string
	TwitterBearerToken string
}

// New sets up all config related services
func New() *Config {
	// a local .env is optional; deployed environments set real env vars
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger, err := setLogger(os.Getenv("APP_ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:                os.Getenv("DB_URI"),
		DatabaseName:       os.Getenv("DB_NAME"),
		BaseURL:            os.Getenv("BASE_URL"),
		Port:               os.Getenv("PORT"),
		AdminWallets:       splitWallets(os.Getenv("ADMIN_WALLETS")),
		CronSecret:         os.Getenv("CRON_SECRET"),
		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
	}
}

func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	case "local", "":
		return zap.NewExample(), nil
	}
	return nil, errors.New("unknown APP_ENV: " + env)
}

// splitWallets parses the comma-separated ADMIN_WALLETS value into
// lowercased wallet addresses
func splitWallets(raw string) []string {
	var wallets []string
	for _, w := range strings.Split(raw, ",") {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			wallets = append(wallets, w)
		}
	}
	return wallets
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}

// LedgerErrorStatus writes a typed ledger rejection to the response. Anything
// that is not a *models.LedgerError is treated as a transient storage failure
// and surfaced as StoreUnavailable so callers can retry, never as a
// business-rule rejection.
func LedgerErrorStatus(w http.ResponseWriter, err error) {
	var lerr *models.LedgerError
	if !errors.As(err, &lerr) {
		zap.S().With(err).Error("store unavailable")
		lerr = models.ErrStoreUnavailable(err)
	} else {
		zap.S().Debugw("ledger rejection",
			"code", lerr.Code,
			"message", lerr.Message,
		)
	}
	w.WriteHeader(lerr.HTTPStatus)
	b, _ := lerr.MarshalBody()
	w.Write(b)
}
