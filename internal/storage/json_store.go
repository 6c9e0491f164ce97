package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// document is the on-disk layout. Values that are valid JSON are embedded in
// Records; anything else is kept byte for byte in Raw.
type document struct {
	Version int                        `json:"version"`
	Records map[string]json.RawMessage `json:"records"`
	Raw     map[string][]byte          `json:"raw,omitempty"`
}

// JSONStore keeps every record in a single JSON document on disk.
type JSONStore struct {
	path string

	mu  sync.Mutex
	doc *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.load()
	}

	s.doc = &document{
		Version: 1,
		Records: make(map[string]json.RawMessage),
		Raw:     make(map[string][]byte),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitlit init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Records == nil {
		doc.Records = make(map[string]json.RawMessage)
	}
	if doc.Raw == nil {
		doc.Raw = make(map[string][]byte)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	if record, ok := s.doc.Records[key]; ok {
		return append([]byte(nil), record...), nil
	}
	if raw, ok := s.doc.Raw[key]; ok {
		return append([]byte(nil), raw...), nil
	}
	return nil, ErrNotFound
}

// Put stores value under key. JSON values are embedded in the document and
// read back as equivalent JSON; other values are read back unchanged.
func (s *JSONStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	if json.Valid(value) {
		delete(s.doc.Raw, key)
		s.doc.Records[key] = append(json.RawMessage(nil), value...)
	} else {
		delete(s.doc.Records, key)
		s.doc.Raw[key] = append([]byte(nil), value...)
	}
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	delete(s.doc.Records, key)
	delete(s.doc.Raw, key)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
