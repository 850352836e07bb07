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

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultVibration is the vibration used when no additional features are given.
	DefaultVibration = 5

	// DefaultCurrent is the current used when no additional features are given.
	DefaultCurrent = 10

	// DefaultVoltage is the voltage used when no additional features are given.
	DefaultVoltage = 220
)

// ErrInvalidAdditionalFeatures is returned when additional features cannot be parsed.
var ErrInvalidAdditionalFeatures = errors.New("invalid additional features")

// FeatureSource tells where additional features come from.
type FeatureSource int

const (
	// FeatureSourceDefault means no additional features were given.
	FeatureSourceDefault FeatureSource = iota

	// FeatureSourceParsed means additional features were parsed, missing ones sampled.
	FeatureSourceParsed

	// FeatureSourceFallback means additional features were malformed and replaced by defaults.
	FeatureSourceFallback
)

func (s FeatureSource) String() string {
	switch s {
	case FeatureSourceDefault:
		return "default"
	case FeatureSourceParsed:
		return "parsed"
	case FeatureSourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// AdditionalFeatures are the sensor readings not carried by the prediction request itself.
type AdditionalFeatures struct {
	Vibration float64
	Current   float64
	Voltage   float64
}

// DefaultAdditionalFeatures returns the fixed defaults.
func DefaultAdditionalFeatures() AdditionalFeatures {
	return AdditionalFeatures{
		Vibration: DefaultVibration,
		Current:   DefaultCurrent,
		Voltage:   DefaultVoltage,
	}
}

// Sampler draws values for additional features missing from the input.
type Sampler interface {
	Vibration() float64
	Current() float64
	Voltage() float64
}

// ParseAdditionalFeatures parses a JSON object of additional features. Empty input yields
// the defaults, malformed input yields the defaults together with the parse error.
func ParseAdditionalFeatures(raw string, sampler Sampler) (AdditionalFeatures, FeatureSource, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultAdditionalFeatures(), FeatureSourceDefault, nil
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return DefaultAdditionalFeatures(), FeatureSourceFallback, fmt.Errorf("%w: %v", ErrInvalidAdditionalFeatures, err)
	}

	// A JSON null decodes into a nil map.
	if values == nil {
		return DefaultAdditionalFeatures(), FeatureSourceFallback, fmt.Errorf("%w: not an object", ErrInvalidAdditionalFeatures)
	}

	var features AdditionalFeatures
	fields := []struct {
		key    string
		sample func() float64
		dest   *float64
	}{
		{key: "vibration", sample: sampler.Vibration, dest: &features.Vibration},
		{key: "current", sample: sampler.Current, dest: &features.Current},
		{key: "voltage", sample: sampler.Voltage, dest: &features.Voltage},
	}

	for _, f := range fields {
		v, ok := values[f.key]
		if !ok {
			*f.dest = f.sample()
			continue
		}

		n, err := toFloat(v)
		if err != nil {
			return DefaultAdditionalFeatures(), FeatureSourceFallback, fmt.Errorf("%w: %s: %v", ErrInvalidAdditionalFeatures, f.key, err)
		}
		*f.dest = n
	}

	return features, FeatureSourceParsed, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}
