package kv

import "strings"

// Prefixed is a view of another store with every key namespaced under a
// fixed prefix. Keys lists only keys in the namespace, stripped of the
// prefix.
type Prefixed struct {
	inner  Store
	prefix string
}

// NewPrefixed wraps store so all keys live under prefix.
func NewPrefixed(store Store, prefix string) *Prefixed {
	return &Prefixed{inner: store, prefix: prefix}
}

func (s *Prefixed) Get(key string) (string, error) {
	return s.inner.Get(s.prefix + key)
}

func (s *Prefixed) Set(key, value string) error {
	return s.inner.Set(s.prefix+key, value)
}

func (s *Prefixed) Delete(key string) error {
	return s.inner.Delete(s.prefix + key)
}

func (s *Prefixed) Keys() ([]string, error) {
	all, err := s.inner.Keys()
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, key := range all {
		if trimmed, ok := strings.CutPrefix(key, s.prefix); ok {
			keys = append(keys, trimmed)
		}
	}
	return keys, nil
}
