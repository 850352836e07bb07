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

package generator

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws fresh sensor values, it is safe for concurrent use.
type Sampler struct {
	mu      sync.Mutex
	normals [6]distuv.Normal
}

// NewSampler returns a sampler seeded with the given seed.
func NewSampler(seed uint64) *Sampler {
	src := rand.NewSource(seed)
	s := &Sampler{}
	for i, d := range Distributions {
		s.normals[i] = distuv.Normal{Mu: d.Mu, Sigma: d.Sigma, Src: src}
	}

	return s
}

// NewTimeSampler returns a sampler seeded with the wall clock.
func NewTimeSampler() *Sampler {
	return NewSampler(uint64(time.Now().UnixNano()))
}

func (s *Sampler) sample(i int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.normals[i].Rand()
}

// Temperature draws a temperature.
func (s *Sampler) Temperature() float64 { return s.sample(0) }

// Pressure draws a pressure.
func (s *Sampler) Pressure() float64 { return s.sample(1) }

// Humidity draws a humidity.
func (s *Sampler) Humidity() float64 { return s.sample(2) }

// Vibration draws a vibration.
func (s *Sampler) Vibration() float64 { return s.sample(3) }

// Current draws a current.
func (s *Sampler) Current() float64 { return s.sample(4) }

// Voltage draws a voltage.
func (s *Sampler) Voltage() float64 { return s.sample(5) }
