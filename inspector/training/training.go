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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"
	"golang.org/x/sync/errgroup"

	logger "github.com/intelliinspect/inspector/internal/inspectlog"
	"github.com/intelliinspect/inspector/inspector/chart"
	"github.com/intelliinspect/inspector/inspector/config"
	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/model"
	"github.com/intelliinspect/inspector/inspector/storage"
	"github.com/intelliinspect/inspector/inspector/training/models"
)

//go:generate mockgen -destination mocks/training_mock.go -source training.go -package mocks

// Request is the date ranges of one training run.
type Request struct {
	TrainStart string
	TrainEnd   string
	TestStart  string
	TestEnd    string
}

// Result is the outcome of a successful training run.
type Result struct {
	// Snapshot is the model held after the run.
	Snapshot *model.Snapshot

	// ConfusionMatrix is the PNG image of the test confusion matrix.
	ConfusionMatrix []byte

	// TrainingChart is the PNG image of the training history.
	TrainingChart []byte
}

// modelFile is the persisted form of a trained model.
type modelFile struct {
	ID        string                   `json:"id"`
	TrainedAt time.Time                `json:"trained_at"`
	Metrics   model.Metrics            `json:"metrics"`
	Model     *models.GradientBoosting `json:"model"`
}

// Training defines the interface to train the inspection model.
type Training interface {
	// Train fits a model on generated data, persists it and replaces the held model.
	Train(context.Context, *Request) (*Result, error)
}

// training implements Training interface.
type training struct {
	// Training config.
	config config.TrainingConfig

	// Storage interface.
	storage storage.Storage

	// Handle of the held model.
	handle *model.Handle
}

// New returns a new Training.
func New(cfg config.TrainingConfig, storage storage.Storage, handle *model.Handle) Training {
	return &training{
		config:  cfg,
		storage: storage,
		handle:  handle,
	}
}

// Train fits a model on generated data, persists it and replaces the held model.
// The held model is untouched when any step fails.
func (t *training) Train(ctx context.Context, req *Request) (*Result, error) {
	id := uuid.NewString()
	log := logger.WithTraining(id)
	log.Infof("train model with train range %s to %s, test range %s to %s", req.TrainStart, req.TrainEnd, req.TestStart, req.TestEnd)

	var trainRecords, testRecords []generator.Record
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		trainRecords, err = generator.GenerateWithSeed(req.TrainStart, req.TrainEnd, t.config.TrainRecords, t.config.DataSeed)
		return err
	})

	eg.Go(func() (err error) {
		testRecords, err = generator.GenerateWithSeed(req.TestStart, req.TestEnd, t.config.TestRecords, t.config.DataSeed)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("generate data: %w", err)
	}

	trainData, err := NewInstances(trainRecords)
	if err != nil {
		return nil, err
	}

	testData, err := NewInstances(testRecords)
	if err != nil {
		return nil, err
	}

	gb := models.NewGradientBoosting(
		models.WithNumTrees(t.config.NumTrees),
		models.WithMaxDepth(t.config.MaxDepth),
		models.WithLearningRate(t.config.LearningRate),
		models.WithSubsample(t.config.Subsample),
		models.WithSeed(t.config.Seed),
	)
	if err := gb.Fit(trainData, testData); err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	metrics, cm, err := Evaluate(gb, testData)
	if err != nil {
		return nil, fmt.Errorf("evaluate model: %w", err)
	}
	log.Infof("evaluate model accuracy %.4f, precision %.4f, recall %.4f, f1 %.4f", metrics.Accuracy, metrics.Precision, metrics.Recall, metrics.F1)

	var historyImage, confusionImage []byte
	eg = &errgroup.Group{}
	eg.Go(func() (err error) {
		historyImage, err = chart.TrainingHistory(gb.History.Checkpoints(t.config.HistoryPoints))
		return err
	})

	eg.Go(func() (err error) {
		confusionImage, err = chart.ConfusionMatrix(cm)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}

	trainedAt := time.Now()
	data, err := json.Marshal(&modelFile{
		ID:        id,
		TrainedAt: trainedAt,
		Metrics:   metrics,
		Model:     gb,
	})
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}

	if err := t.storage.SaveModel(data); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}

	snapshot, err := t.handle.Update(id, gb, metrics, trainedAt)
	if err != nil {
		return nil, fmt.Errorf("update model: %w", err)
	}

	logger.TrainLogger.Infow("model trained", "trainingID", id, "modelVersion", snapshot.Version,
		"trainRecords", len(trainRecords), "testRecords", len(testRecords), "path", t.storage.ModelPath())
	return &Result{
		Snapshot:        snapshot,
		ConfusionMatrix: confusionImage,
		TrainingChart:   historyImage,
	}, nil
}

// Restore loads the persisted model into the handle.
func Restore(s storage.Storage, handle *model.Handle) (*model.Snapshot, error) {
	data, err := s.LoadModel()
	if err != nil {
		return nil, err
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return handle.Update(file.ID, file.Model, file.Metrics, file.TrainedAt)
}

// NewInstances converts records to a golearn grid with a categorical response class.
func NewInstances(records []generator.Record) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(generator.FeatureNames))
	for i, name := range generator.FeatureNames {
		specs[i] = inst.AddAttribute(base.NewFloatAttribute(name))
	}

	class := base.NewCategoricalAttribute()
	class.SetName(ClassAttributeName)
	class.GetSysValFromString(models.ClassFail)
	class.GetSysValFromString(models.ClassPass)
	classSpec := inst.AddAttribute(class)
	if err := inst.AddClassAttribute(class); err != nil {
		return nil, err
	}

	if err := inst.Extend(len(records)); err != nil {
		return nil, err
	}

	for i, r := range records {
		for j, v := range r.Features() {
			inst.Set(specs[j], i, base.PackFloatToBytes(v))
		}

		inst.Set(classSpec, i, class.GetSysValFromString(ClassOf(r.Response)))
	}

	return inst, nil
}

// ClassOf returns the class value of a response.
func ClassOf(response int) string {
	if response == generator.LabelPass {
		return models.ClassPass
	}

	return models.ClassFail
}

// Evaluate predicts the test grid and computes the metrics of the positive class.
func Evaluate(gb *models.GradientBoosting, test base.FixedDataGrid) (model.Metrics, evaluation.ConfusionMatrix, error) {
	predictions, err := gb.Predict(test)
	if err != nil {
		return model.Metrics{}, nil, err
	}

	cm, err := evaluation.GetConfusionMatrix(test, predictions)
	if err != nil {
		return model.Metrics{}, nil, err
	}

	return MetricsOf(cm), cm, nil
}

// MetricsOf computes accuracy and the positive class precision, recall and f1,
// a zero denominator yields 0.
func MetricsOf(cm evaluation.ConfusionMatrix) model.Metrics {
	tp := evaluation.GetTruePositives(models.ClassPass, cm)
	fp := evaluation.GetFalsePositives(models.ClassPass, cm)
	fn := evaluation.GetFalseNegatives(models.ClassPass, cm)

	var correct, total float64
	for actual, row := range cm {
		for predicted, n := range row {
			total += float64(n)
			if actual == predicted {
				correct += float64(n)
			}
		}
	}

	precision := divide(tp, tp+fp)
	recall := divide(tp, tp+fn)
	return model.Metrics{
		Accuracy:  divide(correct, total),
		Precision: precision,
		Recall:    recall,
		F1:        divide(2*precision*recall, precision+recall),
	}
}

func divide(a, b float64) float64 {
	if b == 0 {
		return 0
	}

	return a / b
}
