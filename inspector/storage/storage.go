/*
 *     Copyright 2024 The IntelliInspect Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:generate mockgen -destination mocks/storage_mock.go -source storage.go -package mocks

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	// lockFileExt is extension of the lock file next to the model file.
	lockFileExt = ".lock"

	// defaultDirMode is the mode of created directories.
	defaultDirMode = 0755

	// defaultFileMode is the mode of the model file.
	defaultFileMode = 0644
)

// ErrModelNotFound is returned when no model file exists.
var ErrModelNotFound = errors.New("model file not found")

// Storage is the interface used for storage.
type Storage interface {
	// SaveModel writes the serialised model, creating the directory if absent.
	SaveModel([]byte) error

	// LoadModel reads the serialised model.
	LoadModel() ([]byte, error)

	// ModelPath returns the path of the model file.
	ModelPath() string

	// Clear removes the model file.
	Clear() error
}

type storage struct {
	baseDir  string
	filename string
}

// New returns a new Storage instance.
func New(baseDir, filename string) Storage {
	return &storage{
		baseDir:  baseDir,
		filename: filename,
	}
}

// SaveModel writes the serialised model, concurrent writers are serialised by a file lock.
func (s *storage) SaveModel(data []byte) error {
	if err := os.MkdirAll(s.baseDir, defaultDirMode); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	lock := flock.New(s.lockFilename())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock model file: %w", err)
	}
	defer lock.Unlock()

	if err := os.WriteFile(s.ModelPath(), data, defaultFileMode); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}

	return nil
}

// LoadModel reads the serialised model.
func (s *storage) LoadModel() ([]byte, error) {
	data, err := os.ReadFile(s.ModelPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, s.ModelPath())
		}

		return nil, err
	}

	return data, nil
}

// ModelPath returns the path of the model file.
func (s *storage) ModelPath() string {
	return filepath.Join(s.baseDir, s.filename)
}

// Clear removes the model file and its lock file.
func (s *storage) Clear() error {
	for _, name := range []string{s.ModelPath(), s.lockFilename()} {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

func (s *storage) lockFilename() string {
	return s.ModelPath() + lockFileExt
}
