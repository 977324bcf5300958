package config

// Supported values for DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string // extra DSN query parameters, e.g. "charset=utf8mb4&loc=Local"
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // schema name, or the file path for sqlite
	GormEngine string // mysql, postgres or sqlite

	MaxOpenConns    int // size of the shared connection pool
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
	ConnectTimeout  int // seconds, dial timeout
	QueryTimeout    int // seconds, per store operation including pool wait
}
