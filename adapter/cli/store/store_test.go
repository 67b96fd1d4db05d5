package store

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/adapter/cli"
	internalApp "github.com/supplifit/supplifit/internal/app"
	"github.com/supplifit/supplifit/internal/partners/application/queries"
	"github.com/supplifit/supplifit/pkg/config"
)

func setupCLI(t *testing.T) {
	t.Helper()
	cfg := &config.Config{
		AppEnv:                  "development",
		SQLitePath:              filepath.Join(t.TempDir(), "supplifit.db"),
		ExpiryNoticeWindow:      7,
		EnterpriseCommissionCap: decimal.NewFromInt(5000),
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	cli.SetApp(cli.NewApp(container))
	cli.SetJSONOutput(true)
	t.Cleanup(func() {
		cli.SetApp(nil)
		cli.SetJSONOutput(false)
		container.Close()
	})
}

func TestCLIStoreLifecycle(t *testing.T) {
	setupCLI(t)
	ctx := context.Background()
	owner := uuid.New()

	var out bytes.Buffer
	createCmd.SetContext(ctx)
	createCmd.SetOut(&out)
	require.NoError(t, createCmd.Flags().Set("owner", owner.String()))
	require.NoError(t, createCmd.Flags().Set("tier", "premium"))
	require.NoError(t, createCmd.Flags().Set("registration", "12345678000199"))
	require.NoError(t, createCmd.RunE(createCmd, []string{"Whey Station"}))

	var created queries.StoreDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "premium", created.Tier)
	assert.Equal(t, "0.03", created.CommissionRate)
	assert.True(t, created.Featured)

	out.Reset()
	statusCmd.SetContext(ctx)
	statusCmd.SetOut(&out)
	require.NoError(t, statusCmd.RunE(statusCmd, []string{created.ID.String(), "approved"}))

	var approved queries.StoreDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &approved))
	assert.Equal(t, "approved", approved.Status)

	out.Reset()
	listCmd.SetContext(ctx)
	listCmd.SetOut(&out)
	require.NoError(t, listCmd.RunE(listCmd, []string{"whey"}))

	var found []*queries.StoreDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	// Same registration number again.
	require.NoError(t, createCmd.Flags().Set("owner", uuid.NewString()))
	err := createCmd.RunE(createCmd, []string{"Whey Station Two"})
	assert.ErrorContains(t, err, "failed to create store")
}

func TestCLIStoreUpdate(t *testing.T) {
	setupCLI(t)
	ctx := context.Background()

	var out bytes.Buffer
	createCmd.SetContext(ctx)
	createCmd.SetOut(&out)
	require.NoError(t, createCmd.Flags().Set("owner", uuid.NewString()))
	require.NoError(t, createCmd.Flags().Set("tier", "regular"))
	require.NoError(t, createCmd.Flags().Set("registration", "98765432000155"))
	require.NoError(t, createCmd.RunE(createCmd, []string{"Vitamin Hub"}))
	var created queries.StoreDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))

	out.Reset()
	updateCmd.SetContext(ctx)
	updateCmd.SetOut(&out)
	require.NoError(t, updateCmd.Flags().Set("rate", "0.045"))
	require.NoError(t, updateCmd.RunE(updateCmd, []string{created.ID.String()}))

	var updated queries.StoreDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &updated))
	assert.Equal(t, "0.045", updated.CommissionRate)
	assert.Equal(t, "Vitamin Hub", updated.Name, "unset flags leave fields alone")

	require.NoError(t, updateCmd.Flags().Set("rate", "0.12345"))
	assert.ErrorContains(t, updateCmd.RunE(updateCmd, []string{created.ID.String()}), "failed to update store")

	require.NoError(t, updateCmd.Flags().Set("rate", "abc"))
	assert.ErrorContains(t, updateCmd.RunE(updateCmd, []string{created.ID.String()}), "invalid --rate")
}

func TestCLIStoreRejectsBadInput(t *testing.T) {
	setupCLI(t)

	statusCmd.SetContext(context.Background())
	assert.ErrorContains(t, statusCmd.RunE(statusCmd, []string{"nope", "approved"}), "invalid store ID")

	showCmd.SetContext(context.Background())
	assert.Error(t, showCmd.RunE(showCmd, []string{uuid.NewString()}))
}

func TestCLIStoreRequiresApp(t *testing.T) {
	cli.SetApp(nil)
	_, err := cli.RequireApp()
	require.ErrorIs(t, err, cli.ErrNotInitialized)
	assert.ErrorIs(t, showCmd.RunE(showCmd, []string{uuid.NewString()}), cli.ErrNotInitialized)
}
