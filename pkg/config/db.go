package config

type DB struct {
	DBType string `default:"sqlite" desc:"database driver name"`
	DSN    string `default:"mpxr.db" desc:"database file path or connection string"`
}
