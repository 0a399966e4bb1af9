package store

import "testing"

func initMemoryTestDB(_ *testing.T) Store {
	return NewMemoryStore()
}

func cleanupMemoryTestDB(_ *testing.T) {}

// TestMemoryStore runs all store tests against the in-memory implementation
func TestMemoryStore(t *testing.T) {
	RunStoreTests(t, initMemoryTestDB, cleanupMemoryTestDB)
}
