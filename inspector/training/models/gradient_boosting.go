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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
	"github.com/sjwhitworth/golearn/base"
	"golang.org/x/exp/rand"

	logger "github.com/intelliinspect/inspector/internal/inspectlog"
)

const (
	// GradientBoostingType is the model type of GradientBoosting.
	GradientBoostingType = "GradientBoostingClassifier"

	// ClassPass is the class value of the positive class.
	ClassPass = "Pass"

	// ClassFail is the class value of the negative class.
	ClassFail = "Fail"
)

var (
	// ErrNotFitted is returned when predicting with an unfitted model.
	ErrNotFitted = errors.New("no fitted model")

	// ErrFeatureMismatch is returned when the input does not carry the fitted features.
	ErrFeatureMismatch = errors.New("feature mismatch")

	errNilTree = errors.New("null tree")
)

// GradientBoosting is a binary classifier of boosted regression trees
// fitted on the logistic loss with second order gradients.
type GradientBoosting struct {
	Fitted         bool     `json:"fitted" mapstructure:"fitted"`
	NumTrees       int      `json:"num_trees" mapstructure:"num_trees"`
	MaxDepth       int      `json:"max_depth" mapstructure:"max_depth"`
	LearningRate   float64  `json:"learning_rate" mapstructure:"learning_rate"`
	Lambda         float64  `json:"lambda" mapstructure:"lambda"`
	MinChildWeight float64  `json:"min_child_weight" mapstructure:"min_child_weight"`
	BaseScore      float64  `json:"base_score" mapstructure:"base_score"`
	Subsample      float64  `json:"subsample" mapstructure:"subsample"`
	Seed           int64    `json:"seed" mapstructure:"seed"`
	Features       []string `json:"features" mapstructure:"features"`
	Trees          []*Tree  `json:"trees" mapstructure:"trees"`
	History        *History `json:"history,omitempty" mapstructure:"history"`
}

// Option is a functional option of GradientBoosting.
type Option func(gb *GradientBoosting)

// WithNumTrees sets the number of boosting rounds.
func WithNumTrees(n int) Option {
	return func(gb *GradientBoosting) {
		gb.NumTrees = n
	}
}

// WithMaxDepth sets the maximum depth of trees.
func WithMaxDepth(depth int) Option {
	return func(gb *GradientBoosting) {
		gb.MaxDepth = depth
	}
}

// WithLearningRate sets the shrinkage of every tree.
func WithLearningRate(rate float64) Option {
	return func(gb *GradientBoosting) {
		gb.LearningRate = rate
	}
}

// WithLambda sets the L2 regularisation of leaf weights.
func WithLambda(lambda float64) Option {
	return func(gb *GradientBoosting) {
		gb.Lambda = lambda
	}
}

// WithMinChildWeight sets the minimum hessian sum of a child.
func WithMinChildWeight(w float64) Option {
	return func(gb *GradientBoosting) {
		gb.MinChildWeight = w
	}
}

// WithSubsample sets the fraction of rows sampled for every tree.
func WithSubsample(ratio float64) Option {
	return func(gb *GradientBoosting) {
		gb.Subsample = ratio
	}
}

// WithSeed sets the seed of row subsampling.
func WithSeed(seed int64) Option {
	return func(gb *GradientBoosting) {
		gb.Seed = seed
	}
}

// NewGradientBoosting return an instance of gradient boosting model.
func NewGradientBoosting(options ...Option) *GradientBoosting {
	gb := &GradientBoosting{
		NumTrees:       DefaultNumTrees,
		MaxDepth:       DefaultMaxDepth,
		LearningRate:   DefaultLearningRate,
		Lambda:         DefaultLambda,
		MinChildWeight: DefaultMinChildWeight,
		BaseScore:      DefaultBaseScore,
		Subsample:      DefaultSubsample,
		Seed:           DefaultSeed,
	}

	for _, opt := range options {
		opt(gb)
	}

	return gb
}

// Fit fits the model on train, valid is optional and only recorded in the history.
func (gb *GradientBoosting) Fit(train base.FixedDataGrid, valid base.FixedDataGrid) error {
	if gb.NumTrees <= 0 || gb.MaxDepth <= 0 || gb.LearningRate <= 0 {
		return fmt.Errorf("invalid parameters: trees %d, depth %d, learning rate %v", gb.NumTrees, gb.MaxDepth, gb.LearningRate)
	}

	if gb.Subsample <= 0 || gb.Subsample > 1 {
		return fmt.Errorf("invalid subsample %v", gb.Subsample)
	}

	features := floatAttributeNames(train)
	if len(features) == 0 {
		return errors.New("no float attribute to fit")
	}

	x, y, err := extract(train, features)
	if err != nil {
		return err
	}

	if len(x) == 0 {
		return errors.New("no rows to fit")
	}

	var validX [][]float64
	var validY []float64
	if valid != nil {
		if validX, validY, err = extract(valid, features); err != nil {
			return fmt.Errorf("validation set: %w", err)
		}
	}

	baseMargin := logit(gb.BaseScore)
	margins := make([]float64, len(x))
	for i := range margins {
		margins[i] = baseMargin
	}

	validMargins := make([]float64, len(validX))
	for i := range validMargins {
		validMargins[i] = baseMargin
	}

	rnd := rand.New(rand.NewSource(uint64(gb.Seed)))
	grad := make([]float64, len(x))
	hess := make([]float64, len(x))
	history := &History{}
	trees := make([]*Tree, 0, gb.NumTrees)
	for round := 0; round < gb.NumTrees; round++ {
		for i, m := range margins {
			p := sigmoid(m)
			grad[i] = p - y[i]
			hess[i] = p * (1 - p)
		}

		tree := buildTree(x, grad, hess, gb.sampleRows(rnd, len(x)), treeParams{
			maxDepth:       gb.MaxDepth,
			lambda:         gb.Lambda,
			minChildWeight: gb.MinChildWeight,
			learningRate:   gb.LearningRate,
		})
		trees = append(trees, tree)

		for i := range x {
			margins[i] += tree.Predict(x[i])
		}

		for i := range validX {
			validMargins[i] += tree.Predict(validX[i])
		}

		trainAccuracy, trainLoss := score(margins, y)
		history.Rounds = append(history.Rounds, round+1)
		history.TrainAccuracy = append(history.TrainAccuracy, trainAccuracy)
		history.TrainLoss = append(history.TrainLoss, trainLoss)
		if len(validX) > 0 {
			validAccuracy, validLoss := score(validMargins, validY)
			history.ValidAccuracy = append(history.ValidAccuracy, validAccuracy)
			history.ValidLoss = append(history.ValidLoss, validLoss)
		}
	}

	gb.Features = features
	gb.Trees = trees
	gb.History = history
	gb.Fitted = true
	logger.Debugf("gradient boosting fitted %d trees on %d rows", len(trees), len(x))
	return nil
}

// sampleRows returns the rows used by one tree.
func (gb *GradientBoosting) sampleRows(rnd *rand.Rand, n int) []int {
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if gb.Subsample >= 1 || rnd.Float64() < gb.Subsample {
			rows = append(rows, i)
		}
	}

	// Keep at least one row so that every round builds a tree.
	if len(rows) == 0 {
		rows = append(rows, rnd.Intn(n))
	}

	return rows
}

// PredictProba returns the probability of the positive class for one feature vector
// ordered like Features.
func (gb *GradientBoosting) PredictProba(features []float64) (float64, error) {
	if !gb.Fitted {
		return 0, ErrNotFitted
	}

	if len(features) != len(gb.Features) {
		return 0, fmt.Errorf("%w: expect %d features, got %d", ErrFeatureMismatch, len(gb.Features), len(features))
	}

	return sigmoid(gb.margin(features)), nil
}

// Predict use parameters of model to predict the class of every row provided.
func (gb *GradientBoosting) Predict(X base.FixedDataGrid) (base.FixedDataGrid, error) {
	if !gb.Fitted {
		logger.Info("no fitted model")
		return nil, ErrNotFitted
	}

	x, _, err := extractFeatures(X, gb.Features)
	if err != nil {
		return nil, err
	}

	ret := base.GeneratePredictionVector(X)
	for i := range x {
		class := ClassFail
		if sigmoid(gb.margin(x[i])) > 0.5 {
			class = ClassPass
		}
		base.SetClass(ret, i, class)
	}

	return ret, nil
}

func (gb *GradientBoosting) margin(features []float64) float64 {
	m := logit(gb.BaseScore)
	for _, tree := range gb.Trees {
		m += tree.Predict(features)
	}

	return m
}

func (gb *GradientBoosting) MarshalJSON() ([]byte, error) {
	type alias GradientBoosting
	return json.Marshal((*alias)(gb))
}

func (gb *GradientBoosting) UnmarshalJSON(data []byte) error {
	var d map[string]any
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}

	model := NewGradientBoosting()
	if err := mapstructure.Decode(d, model); err != nil {
		return err
	}

	if model.Fitted {
		for i, tree := range model.Trees {
			if tree == nil {
				return fmt.Errorf("tree %d: %w", i, errNilTree)
			}

			if err := tree.validate(len(model.Features)); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
	}

	*gb = *model
	return nil
}

// floatAttributeNames returns the names of the non class float attributes
// in the order they were added to inst.
func floatAttributeNames(inst base.FixedDataGrid) []string {
	classAttrs := inst.AllClassAttributes()
	var names []string
	for _, a := range inst.AllAttributes() {
		if _, ok := a.(*base.FloatAttribute); !ok {
			continue
		}

		if isClassAttribute(a, classAttrs) {
			continue
		}

		names = append(names, a.GetName())
	}

	return names
}

func isClassAttribute(a base.Attribute, classAttrs []base.Attribute) bool {
	for _, c := range classAttrs {
		if a.Equals(c) {
			return true
		}
	}

	return false
}

// extract reads features and binary labels, rows of ClassPass are labelled 1.
func extract(inst base.FixedDataGrid, features []string) ([][]float64, []float64, error) {
	classAttrs := inst.AllClassAttributes()
	if len(classAttrs) != 1 {
		return nil, nil, errors.New("only 1 class variable is permitted")
	}

	x, rows, err := extractFeatures(inst, features)
	if err != nil {
		return nil, nil, err
	}

	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if base.GetClass(inst, i) == ClassPass {
			y[i] = 1
		}
	}

	return x, y, nil
}

func extractFeatures(inst base.FixedDataGrid, features []string) ([][]float64, int, error) {
	byName := make(map[string]base.Attribute)
	for _, a := range base.NonClassAttributes(inst) {
		byName[a.GetName()] = a
	}

	attrs := make([]base.Attribute, len(features))
	for i, name := range features {
		a, ok := byName[name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: missing attribute %s", ErrFeatureMismatch, name)
		}
		attrs[i] = a
	}

	_, rows := inst.Size()
	x := make([][]float64, rows)
	err := inst.MapOverRows(base.ResolveAttributes(inst, attrs), func(row [][]byte, i int) (bool, error) {
		values := make([]float64, len(row))
		for j, r := range row {
			values[j] = base.UnpackBytesToFloat(r)
		}
		x[i] = values
		return true, nil
	})
	if err != nil {
		return nil, 0, err
	}

	return x, rows, nil
}

// score returns accuracy and mean logistic loss of margins.
func score(margins, y []float64) (float64, float64) {
	var correct, loss float64
	for i, m := range margins {
		p := sigmoid(m)
		if (p > 0.5) == (y[i] == 1) {
			correct++
		}

		p = math.Min(math.Max(p, probabilityEpsilon), 1-probabilityEpsilon)
		loss -= y[i]*math.Log(p) + (1-y[i])*math.Log(1-p)
	}

	n := float64(len(margins))
	return correct / n, loss / n
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
