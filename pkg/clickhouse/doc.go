// Package clickhouse provides a native-protocol ClickHouse client that satisfies database.Conn.
//
// ClickHouse executes one statement per request, so Exec splits migration scripts into
// individual statements with parser.Split before sending them. Select understands *[]string
// destinations (used for history reads) and defers everything else to clickhouse-go's struct
// scanning.
//
// Example usage:
//
//	client, err := clickhouse.NewClientWithOptions(ctx, "clickhouse://default:@localhost:9000/default", clickhouse.ClientOptions{
//		TLSSettings: clickhouse.TLSSettings{
//			CAFile:   "/certs/ca.crt",
//			CertFile: "/certs/tls.crt",
//			KeyFile:  "/certs/tls.key",
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Exec(ctx, "CREATE TABLE t (id UInt64) ENGINE = Memory; INSERT INTO t VALUES (1)"); err != nil {
//		log.Fatal(err)
//	}
package clickhouse
