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

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type TrainRequest struct {
	TrainStart string `json:"trainStart" binding:"required"`
	TrainEnd   string `json:"trainEnd" binding:"required"`
	TestStart  string `json:"testStart" binding:"required"`
	TestEnd    string `json:"testEnd" binding:"required"`
}

type TrainResponse struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message"`
	Accuracy        float64 `json:"accuracy"`
	Precision       float64 `json:"precision"`
	Recall          float64 `json:"recall"`
	F1Score         float64 `json:"f1Score"`
	ConfusionMatrix string  `json:"confusionMatrix"`
	TrainingChart   string  `json:"trainingChart"`
}

type PredictRequest struct {
	Timestamp          string   `json:"timestamp"`
	Temperature        *float64 `json:"temperature" binding:"required"`
	Pressure           *float64 `json:"pressure" binding:"required"`
	Humidity           *float64 `json:"humidity" binding:"required"`
	AdditionalFeatures *string  `json:"additionalFeatures"`
}

// UnmarshalJSON accepts the sensor readings as numbers or numeric strings.
func (r *PredictRequest) UnmarshalJSON(data []byte) error {
	type request PredictRequest
	aux := struct {
		*request
		Temperature *number `json:"temperature"`
		Pressure    *number `json:"pressure"`
		Humidity    *number `json:"humidity"`
	}{request: (*request)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Temperature = aux.Temperature.float()
	r.Pressure = aux.Pressure.float()
	r.Humidity = aux.Humidity.float()
	return nil
}

// number is a float that may be quoted.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}

		*n = number(f)
		return nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}

	*n = number(f)
	return nil
}

func (n *number) float() *float64 {
	if n == nil {
		return nil
	}

	f := float64(*n)
	return &f
}

type PredictResponse struct {
	Timestamp   string  `json:"timestamp"`
	SampleID    string  `json:"sampleId"`
	Prediction  string  `json:"prediction"`
	Confidence  float64 `json:"confidence"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Humidity    float64 `json:"humidity"`
}

// ModelInfoResponse carries only Message when no model is held.
type ModelInfoResponse struct {
	Message   string        `json:"message,omitempty"`
	ModelType string        `json:"model_type,omitempty"`
	Features  []string      `json:"features,omitempty"`
	Metrics   *ModelMetrics `json:"metrics,omitempty"`
	TrainedAt string        `json:"trained_at,omitempty"`
	Version   uint64        `json:"version,omitempty"`
	ID        string        `json:"id,omitempty"`
}

type ModelMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type DatasetQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
	Count *int   `form:"count" binding:"omitempty,gte=0,lte=100000"`
}
