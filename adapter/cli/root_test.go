package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreparseGlobalFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantConfig  string
		wantVerbose bool
	}{
		{"none", []string{"store", "list"}, "", false},
		{"long", []string{"--config", "prod.env", "sweep"}, "prod.env", false},
		{"short with subcommand flags", []string{"plan", "create", "-t", "pro", "-c", "dev.env", "-v"}, "dev.env", true},
		{"equals", []string{"serve", "--addr", ":9000", "--config=ci.env"}, "ci.env", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, verbose := PreparseGlobalFlags(tt.args)
			assert.Equal(t, tt.wantConfig, cfg)
			assert.Equal(t, tt.wantVerbose, verbose)
		})
	}
}
