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

package training

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliinspect/inspector/inspector/config"
	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/model"
	"github.com/intelliinspect/inspector/inspector/storage"
	storagemocks "github.com/intelliinspect/inspector/inspector/storage/mocks"
	"github.com/intelliinspect/inspector/inspector/training/models"
)

var (
	mockRequest = &Request{
		TrainStart: "2021-01-01",
		TrainEnd:   "2021-12-31",
		TestStart:  "2022-01-01",
		TestEnd:    "2022-03-31",
	}

	pngSignature = []byte{0x89, 'P', 'N', 'G'}
)

func mockTrainingConfig() config.TrainingConfig {
	cfg := config.New().Training
	cfg.NumTrees = 20
	cfg.TrainRecords = 400
	cfg.TestRecords = 150
	return cfg
}

func TestTraining_Train(t *testing.T) {
	tests := []struct {
		name   string
		req    *Request
		mock   func(ms *storagemocks.MockStorageMockRecorder)
		expect func(t *testing.T, h *model.Handle, result *Result, err error)
	}{
		{
			name: "train model",
			req:  mockRequest,
			mock: func(ms *storagemocks.MockStorageMockRecorder) {
				ms.SaveModel(gomock.Any()).Return(nil).Times(1)
				ms.ModelPath().Return("models/gbdt_model.json").AnyTimes()
			},
			expect: func(t *testing.T, h *model.Handle, result *Result, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(uint64(1), result.Snapshot.Version)
				assert.NotEmpty(result.Snapshot.ID)
				assert.Equal(generator.FeatureNames, result.Snapshot.Features)
				assert.Greater(result.Snapshot.Metrics.Accuracy, 0.8)
				assert.True(len(result.TrainingChart) > len(pngSignature))
				assert.Equal(pngSignature, result.TrainingChart[:4])
				assert.Equal(pngSignature, result.ConfusionMatrix[:4])

				s, err := h.Load()
				assert.NoError(err)
				assert.Same(result.Snapshot, s)
			},
		},
		{
			name: "invalid train range",
			req: &Request{
				TrainStart: "foo",
				TrainEnd:   "2021-12-31",
				TestStart:  "2022-01-01",
				TestEnd:    "2022-03-31",
			},
			mock: func(ms *storagemocks.MockStorageMockRecorder) {},
			expect: func(t *testing.T, h *model.Handle, result *Result, err error) {
				assert := assert.New(t)
				assert.ErrorIs(err, generator.ErrInvalidTime)
				assert.Nil(result)
				_, err = h.Load()
				assert.ErrorIs(err, model.ErrNotTrained)
			},
		},
		{
			name: "invalid test range",
			req: &Request{
				TrainStart: "2021-01-01",
				TrainEnd:   "2021-12-31",
				TestStart:  "2022-01-01",
				TestEnd:    "bar",
			},
			mock: func(ms *storagemocks.MockStorageMockRecorder) {},
			expect: func(t *testing.T, h *model.Handle, result *Result, err error) {
				assert := assert.New(t)
				assert.ErrorIs(err, generator.ErrInvalidTime)
			},
		},
		{
			name: "save model failed",
			req:  mockRequest,
			mock: func(ms *storagemocks.MockStorageMockRecorder) {
				ms.SaveModel(gomock.Any()).Return(errors.New("disk full")).Times(1)
			},
			expect: func(t *testing.T, h *model.Handle, result *Result, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "save model: disk full")
				assert.Equal(uint64(0), h.Version())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()
			s := storagemocks.NewMockStorage(ctl)
			tc.mock(s.EXPECT())

			h := model.NewHandle()
			result, err := New(mockTrainingConfig(), s, h).Train(context.Background(), tc.req)
			tc.expect(t, h, result, err)
		})
	}
}

func TestTraining_TrainKeepsModelOnFailure(t *testing.T) {
	assert := assert.New(t)
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := storagemocks.NewMockStorage(ctl)
	gomock.InOrder(
		s.EXPECT().SaveModel(gomock.Any()).Return(nil),
		s.EXPECT().SaveModel(gomock.Any()).Return(errors.New("foo")),
	)
	s.EXPECT().ModelPath().Return("foo").AnyTimes()

	h := model.NewHandle()
	tr := New(mockTrainingConfig(), s, h)
	first, err := tr.Train(context.Background(), mockRequest)
	require.NoError(t, err)

	_, err = tr.Train(context.Background(), mockRequest)
	assert.Error(err)

	current, err := h.Load()
	assert.NoError(err)
	assert.Same(first.Snapshot, current)
}

func TestRestore(t *testing.T) {
	assert := assert.New(t)
	s := storage.New(t.TempDir(), "gbdt_model.json")
	h := model.NewHandle()

	_, err := Restore(s, h)
	assert.ErrorIs(err, storage.ErrModelNotFound)

	trained, err := New(mockTrainingConfig(), s, h).Train(context.Background(), mockRequest)
	require.NoError(t, err)

	restored := model.NewHandle()
	snapshot, err := Restore(s, restored)
	require.NoError(t, err)
	assert.Equal(trained.Snapshot.ID, snapshot.ID)
	assert.Equal(trained.Snapshot.Metrics, snapshot.Metrics)
	assert.True(trained.Snapshot.TrainedAt.Equal(snapshot.TrainedAt))

	records, err := generator.Generate("2022-01-01", "2022-01-31", 20)
	require.NoError(t, err)
	for _, r := range records {
		expected, err := trained.Snapshot.Model.PredictProba(r.Features())
		require.NoError(t, err)
		actual, err := snapshot.Model.PredictProba(r.Features())
		require.NoError(t, err)
		assert.Equal(expected, actual)
	}

	data, err := s.LoadModel()
	require.NoError(t, err)
	var file map[string]any
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Contains(file, "model")
	assert.Contains(file, "metrics")
}

func TestNewInstances(t *testing.T) {
	assert := assert.New(t)
	records, err := generator.Generate("2021-01-01", "2021-01-31", 50)
	require.NoError(t, err)

	inst, err := NewInstances(records)
	require.NoError(t, err)
	cols, rows := inst.Size()
	assert.Equal(7, cols)
	assert.Equal(50, rows)
	assert.Len(inst.AllClassAttributes(), 1)
	assert.Equal(ClassAttributeName, inst.AllClassAttributes()[0].GetName())

	for i, r := range records {
		assert.Equal(ClassOf(r.Response), base.GetClass(inst, i))
	}
}

func TestMetricsOf(t *testing.T) {
	tests := []struct {
		name   string
		cm     evaluation.ConfusionMatrix
		expect model.Metrics
	}{
		{
			name: "balanced",
			cm: evaluation.ConfusionMatrix{
				models.ClassPass: {models.ClassPass: 8, models.ClassFail: 2},
				models.ClassFail: {models.ClassPass: 2, models.ClassFail: 8},
			},
			expect: model.Metrics{Accuracy: 0.8, Precision: 0.8, Recall: 0.8, F1: 0.8},
		},
		{
			name: "no positive predictions",
			cm: evaluation.ConfusionMatrix{
				models.ClassPass: {models.ClassFail: 5},
				models.ClassFail: {models.ClassFail: 5},
			},
			expect: model.Metrics{Accuracy: 0.5},
		},
		{
			name: "only positives",
			cm: evaluation.ConfusionMatrix{
				models.ClassPass: {models.ClassPass: 10},
			},
			expect: model.Metrics{Accuracy: 1, Precision: 1, Recall: 1, F1: 1},
		},
		{
			name:   "empty",
			cm:     evaluation.ConfusionMatrix{},
			expect: model.Metrics{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			m := MetricsOf(tc.cm)
			assert.InDelta(tc.expect.Accuracy, m.Accuracy, 1e-9)
			assert.InDelta(tc.expect.Precision, m.Precision, 1e-9)
			assert.InDelta(tc.expect.Recall, m.Recall, 1e-9)
			assert.InDelta(tc.expect.F1, m.F1, 1e-9)
		})
	}
}
