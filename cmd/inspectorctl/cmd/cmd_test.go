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

package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/assert"

	"github.com/intelliinspect/inspector/client/inspector/mocks"
	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/types"
)

func TestSimulate(t *testing.T) {
	records, err := generator.Generate("2021-01-01", "2021-01-02", 4)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name            string
		continueOnError bool
		mock            func(m *mocks.MockInspectorMockRecorder)
		expect          func(t *testing.T, s *SimulationStats, err error)
	}{
		{
			name: "all predictions succeed",
			mock: func(m *mocks.MockInspectorMockRecorder) {
				gomock.InOrder(
					m.PredictWithContext(gomock.Any(), gomock.Any()).Return(&types.PredictResponse{Prediction: "Pass", Confidence: 90}, nil).Times(3),
					m.PredictWithContext(gomock.Any(), gomock.Any()).Return(&types.PredictResponse{Prediction: "Fail", Confidence: 70}, nil).Times(1),
				)
			},
			expect: func(t *testing.T, s *SimulationStats, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(&SimulationStats{
					TotalPredictions:  4,
					PassCount:         3,
					FailCount:         1,
					AverageConfidence: 85,
				}, s)
			},
		},
		{
			name: "stop at the first error",
			mock: func(m *mocks.MockInspectorMockRecorder) {
				gomock.InOrder(
					m.PredictWithContext(gomock.Any(), gomock.Any()).Return(&types.PredictResponse{Prediction: "Pass", Confidence: 90}, nil).Times(1),
					m.PredictWithContext(gomock.Any(), gomock.Any()).Return(nil, errors.New("foo")).Times(1),
				)
			},
			expect: func(t *testing.T, s *SimulationStats, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "foo")
				assert.Nil(s)
			},
		},
		{
			name:            "continue on error",
			continueOnError: true,
			mock: func(m *mocks.MockInspectorMockRecorder) {
				gomock.InOrder(
					m.PredictWithContext(gomock.Any(), gomock.Any()).Return(nil, errors.New("foo")).Times(2),
					m.PredictWithContext(gomock.Any(), gomock.Any()).Return(&types.PredictResponse{Prediction: "Pass", Confidence: 33.333}, nil).Times(2),
				)
			},
			expect: func(t *testing.T, s *SimulationStats, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(2, s.TotalPredictions)
				assert.Equal(2, s.ErrorCount)
				assert.Equal(33.33, s.AverageConfidence)
			},
		},
		{
			name:            "every prediction fails",
			continueOnError: true,
			mock: func(m *mocks.MockInspectorMockRecorder) {
				m.PredictWithContext(gomock.Any(), gomock.Any()).Return(nil, errors.New("foo")).Times(4)
			},
			expect: func(t *testing.T, s *SimulationStats, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(&SimulationStats{ErrorCount: 4}, s)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()
			client := mocks.NewMockInspector(ctl)
			tc.mock(client.EXPECT())

			pb := progressbar.NewOptions(len(records), progressbar.OptionSetWriter(io.Discard))
			s, err := simulate(context.Background(), client, records, pb, 0, tc.continueOnError)
			tc.expect(t, s, err)
		})
	}
}

func TestSimulate_Canceled(t *testing.T) {
	records, err := generator.Generate("2021-01-01", "2021-01-02", 2)
	if err != nil {
		t.Fatal(err)
	}

	ctl := gomock.NewController(t)
	defer ctl.Finish()
	client := mocks.NewMockInspector(ctl)

	ctx, cancel := context.WithCancel(context.Background())
	client.EXPECT().PredictWithContext(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, *types.PredictRequest) (*types.PredictResponse, error) {
		cancel()
		return &types.PredictResponse{Prediction: "Pass"}, nil
	}).Times(1)

	pb := progressbar.NewOptions(len(records), progressbar.OptionSetWriter(io.Discard))
	s, err := simulate(ctx, client, records, pb, time.Hour, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, s)
}

func TestNewSimulatedRequest(t *testing.T) {
	record := generator.Record{
		Timestamp:   time.Date(2021, 1, 1, 12, 30, 0, 0, time.UTC),
		Temperature: 45,
		Pressure:    1000,
		Humidity:    50,
		Vibration:   5,
		Current:     10,
		Voltage:     220,
	}

	req, err := newSimulatedRequest(record)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("2021-01-01T12:30:00", req.Timestamp)
	assert.Equal(45.0, *req.Temperature)
	assert.JSONEq(`{"vibration": 5, "current": 10, "voltage": 220}`, *req.AdditionalFeatures)
}

func TestNewPredictRequest(t *testing.T) {
	predictFlags.timestamp = "2021-01-01T00:00:00"
	predictFlags.temperature = 45
	predictFlags.additionalFeatures = `{"vibration": 5}`
	defer func() {
		predictFlags.timestamp = ""
		predictFlags.temperature = 0
		predictFlags.additionalFeatures = ""
	}()

	assert := assert.New(t)
	req := newPredictRequest(false)
	assert.Equal("2021-01-01T00:00:00", req.Timestamp)
	assert.Equal(45.0, *req.Temperature)
	assert.Nil(req.AdditionalFeatures)

	req = newPredictRequest(true)
	assert.Equal(`{"vibration": 5}`, *req.AdditionalFeatures)
}

func TestSaveCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	assert := assert.New(t)

	err := saveCharts(dir, &types.TrainResponse{
		ConfusionMatrix: base64.StdEncoding.EncodeToString([]byte("foo")),
		TrainingChart:   base64.StdEncoding.EncodeToString([]byte("bar")),
	})
	assert.NoError(err)

	b, err := os.ReadFile(filepath.Join(dir, confusionMatrixFilename))
	assert.NoError(err)
	assert.Equal("foo", string(b))

	b, err = os.ReadFile(filepath.Join(dir, trainingChartFilename))
	assert.NoError(err)
	assert.Equal("bar", string(b))

	err = saveCharts(dir, &types.TrainResponse{ConfusionMatrix: "!", TrainingChart: "!"})
	assert.Error(err)
}
