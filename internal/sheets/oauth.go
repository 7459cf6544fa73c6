package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// OAuth2Config holds the settings for the interactive consent flow that
// produces the refresh token used by the appender.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	// CallbackAddr is the local listen address, e.g. "localhost:8085".
	CallbackAddr string
	// TokenFile is where the token is saved; empty skips saving.
	TokenFile string
	Timeout   time.Duration
}

func oauthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// AuthenticateOAuth2Interactive runs the browser consent flow and returns a
// token carrying a refresh token.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config, logger *slog.Logger) (*oauth2.Token, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("client id and client secret are required")
	}
	if config.CallbackAddr == "" {
		config.CallbackAddr = "localhost:8085"
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}

	oc := oauthConfig(config.ClientID, config.ClientSecret, "http://"+config.CallbackAddr+"/callback")

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errorChan <- fmt.Errorf("no authorization code received")
			_, _ = fmt.Fprint(w, "<html><body><h1>Autenticación fallida</h1><p>Probá de nuevo.</p></body></html>")
			return
		}
		codeChan <- code
		_, _ = fmt.Fprint(w, "<html><body><h1>¡Listo!</h1><p>Ya podés cerrar esta ventana.</p></body></html>")
	})

	server := &http.Server{Addr: config.CallbackAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorChan <- fmt.Errorf("failed to start callback server: %w", err)
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := oc.AuthCodeURL("plata", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	logger.Info("Google Sheets authentication required")
	logger.Info("Visit this URL to authorize access", "url", authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
		logger.Info("Received authorization code")
	case err := <-errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(config.Timeout):
		return nil, fmt.Errorf("authentication timeout: no response within %s", config.Timeout)
	}

	token, err := oc.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := SaveToken(config.TokenFile, token); err != nil {
			logger.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		} else {
			logger.Info("Token saved", "file", config.TokenFile)
		}
	}

	return token, nil
}

// LoadToken loads a token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// SaveToken writes token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}
