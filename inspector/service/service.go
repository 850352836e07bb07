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

//go:generate mockgen -destination mocks/service_mock.go -source service.go -package mocks

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	logger "github.com/intelliinspect/inspector/internal/inspectlog"
	"github.com/intelliinspect/inspector/inspector/chart"
	"github.com/intelliinspect/inspector/inspector/config"
	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/metrics"
	"github.com/intelliinspect/inspector/inspector/model"
	"github.com/intelliinspect/inspector/inspector/training"
	"github.com/intelliinspect/inspector/inspector/training/models"
	"github.com/intelliinspect/inspector/inspector/types"
	pkgtypes "github.com/intelliinspect/inspector/pkg/types"
)

const (
	// HealthStatus is the status reported by a serving inspector.
	HealthStatus = "healthy"

	// TrainSuccessMessage is the message of a successful training.
	TrainSuccessMessage = "Model trained successfully"

	// NoModelMessage is the model info message when no model is held.
	NoModelMessage = "No model trained yet"

	// DefaultDatasetCount is the number of exported records when no count is given.
	DefaultDatasetCount = 100

	// sampleIDModulus bounds the numeric part of sample ids.
	sampleIDModulus = 10000

	// timestampLayout is the layout of timestamps in responses.
	timestampLayout = "2006-01-02T15:04:05.000000"
)

var tracer = otel.Tracer(pkgtypes.InspectorName)

// Service is the interface of the inspector operations.
type Service interface {
	// Health reports that the service is serving.
	Health() *types.HealthResponse

	// Train trains a new model, failures are reported in the response.
	Train(context.Context, types.TrainRequest) *types.TrainResponse

	// Predict classifies one sensor reading with the held model.
	Predict(context.Context, types.PredictRequest) (*types.PredictResponse, error)

	// ModelInfo describes the held model.
	ModelInfo() *types.ModelInfoResponse

	// Dataset generates synthetic records for export.
	Dataset(types.DatasetQuery) ([]generator.Record, error)
}

type service struct {
	config   *config.Config
	training training.Training
	handle   *model.Handle
	sampler  Sampler
}

// New returns a new Service.
func New(cfg *config.Config, training training.Training, handle *model.Handle, sampler Sampler) Service {
	return &service{
		config:   cfg,
		training: training,
		handle:   handle,
		sampler:  sampler,
	}
}

func (s *service) Health() *types.HealthResponse {
	return &types.HealthResponse{
		Status:    HealthStatus,
		Timestamp: time.Now().Format(timestampLayout),
	}
}

func (s *service) Train(ctx context.Context, req types.TrainRequest) *types.TrainResponse {
	ctx, span := tracer.Start(ctx, "train", trace.WithAttributes(
		attribute.String("train.start", req.TrainStart),
		attribute.String("train.end", req.TrainEnd),
		attribute.String("test.start", req.TestStart),
		attribute.String("test.end", req.TestEnd),
	))
	defer span.End()

	metrics.TrainStartedCount.Inc()
	start := time.Now()
	result, err := s.training.Train(ctx, &training.Request{
		TrainStart: req.TrainStart,
		TrainEnd:   req.TrainEnd,
		TestStart:  req.TestStart,
		TestEnd:    req.TestEnd,
	})
	metrics.TrainDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Errorf("Error training model: %v", err)
		metrics.TrainFailureCount.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &types.TrainResponse{
			Success: false,
			Message: fmt.Sprintf("Error training model: %v", err),
		}
	}

	snapshot := result.Snapshot
	metrics.ModelVersionGauge.Set(float64(snapshot.Version))
	span.SetAttributes(attribute.Int64("model.version", int64(snapshot.Version)))
	logger.WithModelVersion(snapshot.Version).Infof("Model trained successfully. Accuracy: %.3f", snapshot.Metrics.Accuracy)
	return &types.TrainResponse{
		Success:         true,
		Message:         TrainSuccessMessage,
		Accuracy:        percentage(snapshot.Metrics.Accuracy),
		Precision:       percentage(snapshot.Metrics.Precision),
		Recall:          percentage(snapshot.Metrics.Recall),
		F1Score:         percentage(snapshot.Metrics.F1),
		ConfusionMatrix: chart.Encode(result.ConfusionMatrix),
		TrainingChart:   chart.Encode(result.TrainingChart),
	}
}

func (s *service) Predict(ctx context.Context, req types.PredictRequest) (*types.PredictResponse, error) {
	_, span := tracer.Start(ctx, "predict", trace.WithAttributes(attribute.String("timestamp", req.Timestamp)))
	defer span.End()

	snapshot, err := s.handle.Load()
	if err != nil {
		return nil, err
	}

	var raw string
	if req.AdditionalFeatures != nil {
		raw = *req.AdditionalFeatures
	}

	sampleID := SampleID(req.Timestamp)
	log := logger.WithSample(sampleID, req.Timestamp)
	additional, source, err := ParseAdditionalFeatures(raw, s.sampler)
	if err != nil {
		log.Warnf("use default additional features: %v", err)
		metrics.AdditionalFeaturesFallbackCount.Inc()
	}
	span.SetAttributes(attribute.String("features.source", source.String()))

	temperature, pressure, humidity := value(req.Temperature), value(req.Pressure), value(req.Humidity)
	features, err := featureVector(snapshot.Model.Features, map[string]float64{
		"temperature": temperature,
		"pressure":    pressure,
		"humidity":    humidity,
		"vibration":   additional.Vibration,
		"current":     additional.Current,
		"voltage":     additional.Voltage,
	})
	if err != nil {
		metrics.PredictFailureCount.Inc()
		span.RecordError(err)
		return nil, err
	}

	p, err := snapshot.Model.PredictProba(features)
	if err != nil {
		metrics.PredictFailureCount.Inc()
		span.RecordError(err)
		return nil, err
	}

	prediction, confidence := models.ClassFail, 1-p
	if p > 0.5 {
		prediction, confidence = models.ClassPass, p
	}

	metrics.PredictCount.WithLabelValues(prediction).Inc()
	log.Debugf("predict %s with probability %.4f by model version %d", prediction, p, snapshot.Version)
	return &types.PredictResponse{
		Timestamp:   req.Timestamp,
		SampleID:    sampleID,
		Prediction:  prediction,
		Confidence:  percentage(confidence),
		Temperature: temperature,
		Pressure:    pressure,
		Humidity:    humidity,
	}, nil
}

func (s *service) ModelInfo() *types.ModelInfoResponse {
	snapshot, err := s.handle.Load()
	if err != nil {
		return &types.ModelInfoResponse{Message: NoModelMessage}
	}

	return &types.ModelInfoResponse{
		ModelType: models.GradientBoostingType,
		Features:  snapshot.Features,
		Metrics: &types.ModelMetrics{
			Accuracy:  snapshot.Metrics.Accuracy,
			Precision: snapshot.Metrics.Precision,
			Recall:    snapshot.Metrics.Recall,
			F1:        snapshot.Metrics.F1,
		},
		TrainedAt: snapshot.TrainedAt.Format(timestampLayout),
		Version:   snapshot.Version,
		ID:        snapshot.ID,
	}
}

func (s *service) Dataset(query types.DatasetQuery) ([]generator.Record, error) {
	count := DefaultDatasetCount
	if query.Count != nil {
		count = *query.Count
	}

	records, err := generator.GenerateWithSeed(query.Start, query.End, count, s.config.Training.DataSeed)
	if err != nil {
		return nil, err
	}

	metrics.DatasetRecordCount.Add(float64(len(records)))
	return records, nil
}

// featureVector orders values like the fitted features of the model.
func featureVector(names []string, values map[string]float64) ([]float64, error) {
	features := make([]float64, len(names))
	for i, name := range names {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %s", models.ErrFeatureMismatch, name)
		}
		features[i] = v
	}

	return features, nil
}

// SampleID derives the sample id of a timestamp, distinct timestamps may collide.
func SampleID(timestamp string) string {
	return fmt.Sprintf("sample_%d", xxhash.Sum64String(timestamp)%sampleIDModulus)
}

// percentage converts a fraction to a percentage rounded to two decimals.
func percentage(fraction float64) float64 {
	return math.Round(fraction*100*100) / 100
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
