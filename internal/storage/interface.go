package storage

// Provider is a durable client-side key-value store. Values are opaque
// strings; callers serialize to JSON themselves.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
