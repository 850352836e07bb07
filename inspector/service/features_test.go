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
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedSampler struct{}

func (fixedSampler) Vibration() float64 { return 1 }
func (fixedSampler) Current() float64 { return 2 }
func (fixedSampler) Voltage() float64 { return 3 }

func TestParseAdditionalFeatures(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		expect func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error)
	}{
		{
			name: "empty input",
			raw:  "",
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(FeatureSourceDefault, source)
				assert.Equal(AdditionalFeatures{Vibration: 5, Current: 10, Voltage: 220}, features)
			},
		},
		{
			name: "blank input",
			raw:  "   ",
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(FeatureSourceDefault, source)
			},
		},
		{
			name: "all keys present",
			raw:  `{"vibration": 7.5, "current": 12, "voltage": 230}`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(FeatureSourceParsed, source)
				assert.Equal(AdditionalFeatures{Vibration: 7.5, Current: 12, Voltage: 230}, features)
			},
		},
		{
			name: "missing keys are sampled",
			raw:  `{"voltage": 230, "foo": "bar"}`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(FeatureSourceParsed, source)
				assert.Equal(AdditionalFeatures{Vibration: 1, Current: 2, Voltage: 230}, features)
			},
		},
		{
			name: "empty object",
			raw:  `{}`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(FeatureSourceParsed, source)
				assert.Equal(AdditionalFeatures{Vibration: 1, Current: 2, Voltage: 3}, features)
			},
		},
		{
			name: "numeric strings are coerced",
			raw:  `{"vibration": "6.5", "current": " 11 ", "voltage": 210}`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(AdditionalFeatures{Vibration: 6.5, Current: 11, Voltage: 210}, features)
			},
		},
		{
			name: "invalid json",
			raw:  `{"vibration": `,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.ErrorIs(err, ErrInvalidAdditionalFeatures)
				assert.Equal(FeatureSourceFallback, source)
				assert.Equal(DefaultAdditionalFeatures(), features)
			},
		},
		{
			name: "json array",
			raw:  `[1, 2, 3]`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.ErrorIs(err, ErrInvalidAdditionalFeatures)
				assert.Equal(FeatureSourceFallback, source)
			},
		},
		{
			name: "json null",
			raw:  `null`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "invalid additional features: not an object")
				assert.Equal(FeatureSourceFallback, source)
			},
		},
		{
			name: "non numeric value",
			raw:  `{"vibration": "high", "current": 12}`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.ErrorIs(err, ErrInvalidAdditionalFeatures)
				assert.Equal(FeatureSourceFallback, source)
				assert.Equal(DefaultAdditionalFeatures(), features)
			},
		},
		{
			name: "nested object value",
			raw:  `{"voltage": {"value": 220}}`,
			expect: func(t *testing.T, features AdditionalFeatures, source FeatureSource, err error) {
				assert := assert.New(t)
				assert.ErrorIs(err, ErrInvalidAdditionalFeatures)
				assert.Equal(FeatureSourceFallback, source)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			features, source, err := ParseAdditionalFeatures(tc.raw, fixedSampler{})
			tc.expect(t, features, source, err)
		})
	}
}

func TestFeatureSource_String(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("default", FeatureSourceDefault.String())
	assert.Equal("parsed", FeatureSourceParsed.String())
	assert.Equal("fallback", FeatureSourceFallback.String())
	assert.Equal("unknown", FeatureSource(9).String())
}
