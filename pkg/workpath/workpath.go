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

package workpath

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

var (
	// DefaultWorkHome is the default work home directory, relative to the user's home.
	DefaultWorkHome = defaultWorkHome()

	// DefaultWorkHomeMode is the default mode of the work home directory.
	DefaultWorkHomeMode = fs.FileMode(0700)

	// DefaultLogDirMode is the default mode of the log directory.
	DefaultLogDirMode = fs.FileMode(0700)
)

// Workpath is the interface used for init project path.
type Workpath interface {
	WorkHome() string
	WorkHomeMode() fs.FileMode
	LogDir() string
}

type workpath struct {
	workHome     string
	workHomeMode fs.FileMode
	logDir       string
}

// Option is a functional option for configuring the workpath.
type Option func(w *workpath)

// WithWorkHome set the workhome directory.
func WithWorkHome(dir string) Option {
	return func(w *workpath) {
		w.workHome = dir
	}
}

// WithWorkHomeMode sets the workHome directory mode.
func WithWorkHomeMode(mode fs.FileMode) Option {
	return func(w *workpath) {
		w.workHomeMode = mode
	}
}

// WithLogDir set the log directory.
func WithLogDir(dir string) Option {
	return func(w *workpath) {
		w.logDir = dir
	}
}

// New returns a new workpath interface, creating the directories on demand.
func New(options ...Option) (Workpath, error) {
	w := &workpath{
		workHome:     DefaultWorkHome,
		workHomeMode: DefaultWorkHomeMode,
	}

	for _, opt := range options {
		opt(w)
	}

	if w.logDir == "" {
		w.logDir = filepath.Join(w.workHome, "logs")
	}

	var errs *multierror.Error

	// Create workhome directory.
	if err := os.MkdirAll(w.workHome, w.workHomeMode); err != nil {
		errs = multierror.Append(errs, err)
	}

	// Create log directory.
	if err := os.MkdirAll(w.logDir, DefaultLogDirMode); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *workpath) WorkHome() string {
	return w.workHome
}

func (w *workpath) WorkHomeMode() fs.FileMode {
	return w.workHomeMode
}

func (w *workpath) LogDir() string {
	return w.logDir
}

func defaultWorkHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".intelliinspect")
	}

	return filepath.Join(home, ".intelliinspect")
}
