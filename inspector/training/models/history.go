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

// History records the metrics of every boosting round.
type History struct {
	Rounds        []int     `json:"rounds" mapstructure:"rounds"`
	TrainAccuracy []float64 `json:"train_accuracy" mapstructure:"train_accuracy"`
	TrainLoss     []float64 `json:"train_loss" mapstructure:"train_loss"`
	ValidAccuracy []float64 `json:"valid_accuracy,omitempty" mapstructure:"valid_accuracy"`
	ValidLoss     []float64 `json:"valid_loss,omitempty" mapstructure:"valid_loss"`
}

// Len returns the number of recorded rounds.
func (h *History) Len() int {
	return len(h.Rounds)
}

// Checkpoints returns n evenly spaced rounds of the history, always including
// the last round. The whole history is returned when it has at most n rounds.
func (h *History) Checkpoints(n int) *History {
	total := h.Len()
	if n <= 0 || total == 0 {
		return &History{}
	}

	if total <= n {
		n = total
	}

	out := &History{}
	for i := 1; i <= n; i++ {
		idx := i*total/n - 1
		out.Rounds = append(out.Rounds, h.Rounds[idx])
		out.TrainAccuracy = append(out.TrainAccuracy, h.TrainAccuracy[idx])
		out.TrainLoss = append(out.TrainLoss, h.TrainLoss[idx])
		if len(h.ValidAccuracy) == total {
			out.ValidAccuracy = append(out.ValidAccuracy, h.ValidAccuracy[idx])
			out.ValidLoss = append(out.ValidLoss, h.ValidLoss[idx])
		}
	}

	return out
}
