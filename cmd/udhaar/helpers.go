package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/udhaarapp/udhaar/internal/config"
	"github.com/udhaarapp/udhaar/internal/engine"
	"github.com/udhaarapp/udhaar/internal/mirror"
	"github.com/udhaarapp/udhaar/internal/service"
	"github.com/udhaarapp/udhaar/internal/storage"
)

// initStore opens the local record store with proper path expansion.
func initStore() (service.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultDataPath()
		if err != nil {
			return nil, err
		}
	}

	return storage.NewSQLiteStore(config.ExpandPath(dbPath))
}

// initMirror builds the remote mirror client when a backend is configured,
// returning nil otherwise. A missing backend is not an error: the app is
// fully usable offline with private loans only.
func initMirror() (service.Mirror, string, error) {
	baseURL := viper.GetString("backend.url")
	if baseURL == "" {
		return nil, "", nil
	}

	client, err := mirror.NewClient(mirror.Config{
		BaseURL:   baseURL,
		APIKey:    viper.GetString("backend.api_key"),
		AuthToken: viper.GetString("backend.auth_token"),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create mirror client: %w", err)
	}

	return client, viper.GetString("backend.user_id"), nil
}

// initEngine wires the store, the mirror (if configured) and the engine.
// The returned cleanup closes the store.
func initEngine(ctx context.Context) (*engine.Engine, func(), error) {
	store, err := initStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}

	remote, userID, err := initMirror()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	eng, err := engine.New(ctx, engine.Config{
		Store:  store,
		Mirror: remote,
		UserID: userID,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cleanup := func() { _ = store.Close() }
	return eng, cleanup, nil
}
