package domain

// DatabaseDriver represents the type of database engine behind the analytics
// event store.
type DatabaseDriver string

const (
	DatabaseDriverMySQL    DatabaseDriver = "mysql"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverMongoDB  DatabaseDriver = "mongodb"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
)

// DatabaseConnection holds the metadata for connecting to the analytics
// database. The password is stored separately in the SecretStore.
type DatabaseConnection struct {
	Driver   DatabaseDriver    `json:"driver" yaml:"driver"`
	Host     string            `json:"host" yaml:"host"`         // hostname, URI (mongodb) or file path (sqlite)
	Port     int               `json:"port" yaml:"port"`         // 0 for driver default
	Database string            `json:"database" yaml:"database"` // db name or empty for sqlite
	Username string            `json:"username" yaml:"username"`
	SSLMode  string            `json:"sslMode" yaml:"ssl_mode"`
	Options  map[string]string `json:"options,omitempty" yaml:"options"` // driver-specific query params
}
