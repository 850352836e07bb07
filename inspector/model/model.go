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

package model

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/intelliinspect/inspector/inspector/training/models"
)

// ErrNotTrained is returned when no model is held.
var ErrNotTrained = errors.New("no trained model available")

// Metrics are the classification metrics of a model on its test set,
// every value is a fraction in [0, 1].
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Snapshot is an immutable view of the held model.
type Snapshot struct {
	// Version increases with every update, starting at 1.
	Version uint64

	// ID is the id of the training run.
	ID string

	// Model is the fitted classifier.
	Model *models.GradientBoosting

	// Metrics of the model.
	Metrics Metrics

	// Features are the feature names in model order.
	Features []string

	// TrainedAt is the time training completed.
	TrainedAt time.Time
}

// Handle holds the current model. Readers load a snapshot without locking,
// writers are serialised.
type Handle struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[Snapshot]
}

// NewHandle returns an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Load returns the current snapshot, or ErrNotTrained when nothing is held.
func (h *Handle) Load() (*Snapshot, error) {
	s := h.snapshot.Load()
	if s == nil {
		return nil, ErrNotTrained
	}

	return s, nil
}

// Version returns the current version, 0 when nothing is held.
func (h *Handle) Version() uint64 {
	if s := h.snapshot.Load(); s != nil {
		return s.Version
	}

	return 0
}

// Update replaces the held model and metrics together and returns the new snapshot.
func (h *Handle) Update(id string, m *models.GradientBoosting, metrics Metrics, trainedAt time.Time) (*Snapshot, error) {
	if m == nil || !m.Fitted {
		return nil, models.ErrNotFitted
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	features := make([]string, len(m.Features))
	copy(features, m.Features)
	s := &Snapshot{
		Version:   h.Version() + 1,
		ID:        id,
		Model:     m,
		Metrics:   metrics,
		Features:  features,
		TrainedAt: trainedAt,
	}
	h.snapshot.Store(s)

	return s, nil
}
