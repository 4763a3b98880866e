package testutil

// MemKV is an in-memory key-value fake. Zero value is ready to use.
type MemKV struct {
	m map[string][]byte

	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
	// RemoveErr, when non-nil, is returned by every Remove call.
	RemoveErr error
}

// Get returns the blob stored under key.
func (k *MemKV) Get(key string) ([]byte, bool) {
	v, ok := k.m[key]
	return v, ok
}

// Set stores the blob under key.
func (k *MemKV) Set(key string, value []byte) error {
	if k.SetErr != nil {
		return k.SetErr
	}
	if k.m == nil {
		k.m = make(map[string][]byte)
	}
	k.m[key] = append([]byte(nil), value...)
	return nil
}

// Remove deletes the key.
func (k *MemKV) Remove(key string) error {
	if k.RemoveErr != nil {
		return k.RemoveErr
	}
	delete(k.m, key)
	return nil
}
