package dbclient

import (
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"pdfmark/internal/domain"
)

// buildMySQLDSN formats the analytics connection with the driver's own
// config so credentials and options are escaped. Timestamps are read back
// as UTC time.Time values.
func buildMySQLDSN(conn *domain.DatabaseConnection, password string) string {
	port := conn.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = conn.Username
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(conn.Host, strconv.Itoa(port))
	cfg.DBName = conn.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if conn.SSLMode == "require" {
		cfg.TLSConfig = "true"
	}
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range conn.Options {
		cfg.Params[k] = v
	}
	return cfg.FormatDSN()
}
