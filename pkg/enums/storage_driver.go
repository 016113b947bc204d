package enums

import "fmt"

// StorageDriver selects the medium a cart session is persisted to.
type StorageDriver string

const (
	StorageDriverMemory StorageDriver = "memory"
	StorageDriverFile   StorageDriver = "file"
	StorageDriverRedis  StorageDriver = "redis"
	StorageDriverSQL    StorageDriver = "sql"
)

var validStorageDrivers = []StorageDriver{
	StorageDriverMemory,
	StorageDriverFile,
	StorageDriverRedis,
	StorageDriverSQL,
}

// String implements fmt.Stringer.
func (s StorageDriver) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageDriver.
func (s StorageDriver) IsValid() bool {
	for _, candidate := range validStorageDrivers {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageDriver converts raw input into a StorageDriver.
func ParseStorageDriver(value string) (StorageDriver, error) {
	for _, candidate := range validStorageDrivers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage driver %q", value)
}
