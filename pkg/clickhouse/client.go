package clickhouse

import (
	"context"
	"reflect"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/parser"
)

type (
	// Client represents a ClickHouse database connection
	Client struct {
		conn driver.Conn
	}

	// ClientOptions contains optional connection settings.
	ClientOptions struct {
		TLSSettings TLSSettings
	}

	// TLSSettings lists the PEM files used for mTLS. TLS is enabled when CertFile is set.
	TLSSettings struct {
		CAFile   string
		CertFile string
		KeyFile  string
	}
)

// NewClient creates a new ClickHouse client connection.
//
// The DSN can be a bare "host:port" address or a full clickhouse:// (or tcp://) URL understood
// by clickhouse-go.
//
// Example:
//
//	client, err := clickhouse.NewClient(ctx, "clickhouse://default:@localhost:9000/default")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
func NewClient(ctx context.Context, dsn string) (*Client, error) {
	return NewClientWithOptions(ctx, dsn, ClientOptions{})
}

// NewClientWithOptions creates a new ClickHouse client connection, applying opts.
func NewClientWithOptions(ctx context.Context, dsn string, opts ClientOptions) (*Client, error) {
	chOpts, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	if opts.TLSSettings.CertFile != "" {
		tlsConfig, err := GetTLSConfig(opts.TLSSettings)
		if err != nil {
			return nil, err
		}

		chOpts.TLS = tlsConfig
	}

	conn, err := clickhouse.Open(chOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	return &Client{conn: conn}, nil
}

// NewClientFromConn wraps an already open connection.
func NewClientFromConn(conn driver.Conn) *Client {
	return &Client{conn: conn}
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Exec runs a migration script. The native protocol accepts a single statement per request, so
// the script is split and each statement is sent in order. Execution stops at the first failure.
func (c *Client) Exec(ctx context.Context, query string) error {
	stmts, err := parser.Split(query)
	if err != nil {
		return err
	}

	for i, stmt := range stmts {
		if err := c.conn.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement %d: %s", i+1, stmt)
		}
	}

	return nil
}

// Select runs query and scans the rows into dest. A *[]string receives the first column of each
// row, anything else is handed to clickhouse-go's struct scanning.
func (c *Client) Select(ctx context.Context, dest any, query string) error {
	strs, ok := dest.(*[]string)
	if !ok {
		if reflect.TypeOf(dest).Kind() != reflect.Ptr {
			return errors.Errorf("select destination must be a pointer, got %T", dest)
		}

		return c.conn.Select(ctx, dest, query)
	}

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return err
		}

		*strs = append(*strs, s)
	}

	return rows.Err()
}

func parseDSN(dsn string) (*clickhouse.Options, error) {
	if !strings.Contains(dsn, "://") {
		return &clickhouse.Options{Addr: []string{dsn}}, nil
	}

	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ClickHouse DSN")
	}

	return opts, nil
}
