package domain

// DataSourceDriver represents the kind of backend a data source reads from.
type DataSourceDriver string

const (
	DataSourceDriverSQLite   DataSourceDriver = "sqlite"
	DataSourceDriverMySQL    DataSourceDriver = "mysql"
	DataSourceDriverPostgres DataSourceDriver = "postgres"
	DataSourceDriverMongoDB  DataSourceDriver = "mongodb"
	DataSourceDriverStatic   DataSourceDriver = "static"
)

// DataSourceConfig binds a placed component to an external data backend.
// The layout engine treats it as opaque: it is stored, deep-copied, and
// forwarded to the data layer, never interpreted.
type DataSourceConfig struct {
	Kind           string           `json:"kind"` // query | static
	Driver         DataSourceDriver `json:"driver,omitempty"`
	Host           string           `json:"host,omitempty"` // hostname, URI, or file path (sqlite)
	Port           int              `json:"port,omitempty"`
	Database       string           `json:"database,omitempty"`
	Username       string           `json:"username,omitempty"`
	SSLMode        string           `json:"sslMode,omitempty"`
	Query          string           `json:"query,omitempty"`
	RefreshSeconds int              `json:"refreshSeconds,omitempty"`
	Options        map[string]any   `json:"options,omitempty"`
}

// Clone returns a deep copy of the config, or nil for a nil receiver.
func (d *DataSourceConfig) Clone() *DataSourceConfig {
	if d == nil {
		return nil
	}
	out := *d
	out.Options = cloneProps(d.Options)
	return &out
}
