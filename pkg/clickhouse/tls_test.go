package clickhouse_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/sqlmigrate/pkg/clickhouse"
	"github.com/stretchr/testify/require"
)

func TestGetTLSConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a pem"), 0o600))

	tests := []struct {
		name     string
		settings clickhouse.TLSSettings
		errMsg   string
	}{
		{
			name:     "missing cert file",
			settings: clickhouse.TLSSettings{CertFile: "bogus.crt", KeyFile: "bogus.key"},
			errMsg:   "unable to load certfile/keyfile",
		},
		{
			name:     "unparseable cert file",
			settings: clickhouse.TLSSettings{CertFile: garbage, KeyFile: garbage},
			errMsg:   "unable to load certfile/keyfile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := clickhouse.GetTLSConfig(tt.settings)
			require.Error(t, err)
			require.Nil(t, cfg)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
