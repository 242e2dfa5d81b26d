// Package settings persists the cloud managed device settings.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Keys of the shared attributes the device keeps.
const (
	AuxTankRange = "AuxTankRange"
	AuxTankMax   = "AuxTankMax"
	ExtTankRange = "ExtTankRange"
	ExtTankMax   = "ExtTankMax"

	FillTime     = "FillTime"
	PurgeTime    = "PurgeTime"
	SleepTimeout = "SleepTimeout"
	MinDEFLevel  = "MinDEFLevel"
)

// FloatKeys and IntKeys list the recognized keys by type, in request order.
var (
	FloatKeys = []string{AuxTankMax, AuxTankRange, ExtTankMax, ExtTankRange}
	IntKeys   = []string{FillTime, PurgeTime, SleepTimeout, MinDEFLevel}
)

// document is the file layout.
type document struct {
	Floats map[string]float64 `yaml:"floats"`
	Ints   map[string]int     `yaml:"ints"`
}

// FileStore keeps settings in a YAML file. Set* stage values in memory;
// Commit writes the file.
type FileStore struct {
	path string

	mu  sync.RWMutex
	doc document
}

// Open loads path. A missing file yields an empty store.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		doc: document{
			Floats: map[string]float64{},
			Ints:   map[string]int{},
		},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", path, err)
	}
	if s.doc.Floats == nil {
		s.doc.Floats = map[string]float64{}
	}
	if s.doc.Ints == nil {
		s.doc.Ints = map[string]int{}
	}
	return s, nil
}

func (s *FileStore) SetFloat(key string, v float64) {
	s.mu.Lock()
	s.doc.Floats[key] = v
	s.mu.Unlock()
}

func (s *FileStore) SetInt(key string, v int) {
	s.mu.Lock()
	s.doc.Ints[key] = v
	s.mu.Unlock()
}

func (s *FileStore) Float(key string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.doc.Floats[key]
	return v, ok
}

func (s *FileStore) Int(key string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.doc.Ints[key]
	return v, ok
}

// Commit writes the staged values. The file is replaced atomically.
func (s *FileStore) Commit() error {
	s.mu.RLock()
	data, err := yaml.Marshal(&s.doc)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Ints returns the integer settings in IntKeys order, zero when unset.
func (s *FileStore) Ints() [4]int {
	var out [4]int
	for i, k := range IntKeys {
		out[i], _ = s.Int(k)
	}
	return out
}
