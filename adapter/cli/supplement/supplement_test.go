package supplement

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/adapter/cli"
	internalApp "github.com/supplifit/supplifit/internal/app"
	"github.com/supplifit/supplifit/internal/catalog/application/queries"
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

func execute(t *testing.T, cmd *cobra.Command, args []string, flags map[string]string) (*bytes.Buffer, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return &out, cmd.RunE(cmd, args)
}

func TestCLICatalog(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, categoryCreateCmd, []string{"Protein"}, map[string]string{"description": "Whey and casein"})
	require.NoError(t, err)
	var category queries.CategoryDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &category))
	assert.Equal(t, "Protein", category.Name)

	out, err = execute(t, createCmd, []string{"Iso Whey"}, map[string]string{
		"category": category.ID.String(),
		"brand":    "Growth",
		"type":     "protein",
		"price":    "179.90",
	})
	require.NoError(t, err)
	var created queries.SupplementDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.Equal(t, "179.90", created.Price)
	assert.Equal(t, "Protein", created.CategoryName)
	assert.True(t, created.Available)

	_, err = execute(t, createCmd, []string{"Cheap Whey"}, map[string]string{"price": "9.999"})
	assert.Error(t, err, "price with three decimal places")

	out, err = execute(t, updateCmd, []string{created.ID.String()}, map[string]string{"available": "false", "price": "169.90"})
	require.NoError(t, err)
	var updated queries.SupplementDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &updated))
	assert.Equal(t, "169.90", updated.Price)
	assert.False(t, updated.Available)
	assert.Equal(t, "Growth", updated.Brand)

	out, err = execute(t, listCmd, []string{"whey"}, nil)
	require.NoError(t, err)
	var found []queries.SupplementDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	out, err = execute(t, listCmd, nil, map[string]string{"available": "true"})
	require.NoError(t, err)
	found = nil
	require.NoError(t, json.Unmarshal(out.Bytes(), &found))
	assert.Empty(t, found)

	_, err = execute(t, listCmd, nil, map[string]string{"available": "maybe"})
	assert.Error(t, err)
	require.NoError(t, listCmd.Flags().Set("available", ""))

	_, err = execute(t, categoryDeleteCmd, []string{category.ID.String()}, nil)
	assert.Error(t, err, "category still holds a supplement")

	out, err = execute(t, deleteCmd, []string{created.ID.String()}, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "deleted")

	_, err = execute(t, showCmd, []string{created.ID.String()}, nil)
	assert.Error(t, err)

	_, err = execute(t, categoryDeleteCmd, []string{category.ID.String()}, nil)
	require.NoError(t, err)
}
