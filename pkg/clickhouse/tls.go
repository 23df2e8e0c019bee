package clickhouse

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
)

// GetTLSConfig creates a TLS config for connecting to ClickHouse over mTLS.
//
// Example usage:
//
//	cfg, err := GetTLSConfig(TLSSettings{
//		CAFile:   "/certs/ca.crt",
//		CertFile: "/certs/tls.crt",
//		KeyFile:  "/certs/tls.key",
//	})
func GetTLSConfig(settings TLSSettings) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(settings.CertFile, settings.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load certfile/keyfile")
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if settings.CAFile == "" {
		return cfg, nil
	}

	caCert, err := os.ReadFile(settings.CAFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load cafile")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, errors.Errorf("no certificates found in %s", settings.CAFile)
	}

	cfg.RootCAs = pool
	return cfg, nil
}
