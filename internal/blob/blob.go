package blob

// Store is the persistence collaborator: whole-value reads and writes of
// string blobs under logical keys. Implementations must make each Write
// atomic on its own; callers needing read-modify-write atomicity serialize
// above this layer.
type Store interface {
	// Read returns the blob for key. ok is false when the key has never
	// been written; that is not an error.
	Read(key string) (value string, ok bool, err error)
	// Write replaces the blob for key.
	Write(key, value string) error
}
