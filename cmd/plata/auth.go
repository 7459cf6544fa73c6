package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/plata/internal/config"
	"github.com/Veraticus/plata/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command prints a consent URL, waits for the redirect on a local callback
server and stores the refresh token in your config file. Deployments that use a
service account do not need it.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback-addr", "localhost:8085", "local address for the OAuth2 redirect")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found: set sheets.client_id and sheets.client_secret or use --client-id and --client-secret")
	}

	callbackAddr, _ := cmd.Flags().GetString("callback-addr")
	tokenFile := filepath.Join(config.ConfigDir(), "sheets-token.json")

	token, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		CallbackAddr: callbackAddr,
		TokenFile:    tokenFile,
	}, slog.Default())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.client_id", clientID)
	viper.Set("sheets.client_secret", clientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)

	if err := saveConfig(); err != nil {
		slog.Warn("Could not save the refresh token to the config file", "error", err)
		slog.Info("Add it to config.yaml manually under sheets.refresh_token", "token_file", tokenFile)
		return nil
	}

	slog.Info("Google Sheets authentication successful", "config", viper.ConfigFileUsed())
	return nil
}
