package config

// ConfigBackend abstracts platform-specific config storage.
// macOS uses UserDefaults (via the `defaults` CLI), other platforms a
// JSON file under XDG_CONFIG_HOME.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
