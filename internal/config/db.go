package config

// DB holds the console database configuration settings.
type DB struct {
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// GormEngine selects the database driver: "mysql" or "postgres".
	GormEngine string
}
