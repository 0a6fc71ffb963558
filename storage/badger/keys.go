package badger

// Key prefixes for different data types
const (
	valuePrefix = "kv"
)

// makeValueKey generates the badger key for a store key.
// Format: prefix:key
func makeValueKey(key string) []byte {
	buf := make([]byte, 0, len(valuePrefix)+1+len(key))
	buf = append(buf, valuePrefix...)
	buf = append(buf, ':')
	buf = append(buf, key...)
	return buf
}
