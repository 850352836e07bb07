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
	"encoding/json"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	inspectorclient "github.com/intelliinspect/inspector/client/inspector"
	logger "github.com/intelliinspect/inspector/internal/inspectlog"
	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/types"
	pkgtypes "github.com/intelliinspect/inspector/pkg/types"
)

// progressAdder is advanced once per record.
type progressAdder interface {
	Add(int) error
}

// SimulationStats summarizes the predictions of a simulation.
type SimulationStats struct {
	TotalPredictions  int     `json:"totalPredictions"`
	PassCount         int     `json:"passCount"`
	FailCount         int     `json:"failCount"`
	ErrorCount        int     `json:"errorCount"`
	AverageConfidence float64 `json:"averageConfidence"`
}

var simulateFlags struct {
	start           string
	end             string
	count           int
	seed            uint64
	interval        time.Duration
	continueOnError bool
}

var simulateCmd = &cobra.Command{
	Use:          "simulate",
	Short:        "replay generated records of a date range as predictions",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := generator.GenerateWithSeed(simulateFlags.start, simulateFlags.end, simulateFlags.count, simulateFlags.seed)
		if err != nil {
			return err
		}

		pb := progressbar.NewOptions(len(records),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("simulating"),
			progressbar.OptionShowCount(),
		)

		s, err := simulate(cmd.Context(), newClient(), records, pb, simulateFlags.interval, simulateFlags.continueOnError)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), s)
	},
}

func init() {
	flags := simulateCmd.Flags()
	flags.StringVar(&simulateFlags.start, "start", "", "start of the range, like: 2021-01-01")
	flags.StringVar(&simulateFlags.end, "end", "", "end of the range")
	flags.IntVar(&simulateFlags.count, "count", 100, "number of predictions")
	flags.Uint64Var(&simulateFlags.seed, "seed", generator.DefaultSeed, "seed of the generator")
	flags.DurationVar(&simulateFlags.interval, "interval", 0, "delay between two predictions")
	flags.BoolVar(&simulateFlags.continueOnError, "continue-on-error", false, "keep predicting after a failed request")

	for _, name := range []string{"start", "end"} {
		if err := simulateCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

// simulate sends one prediction per record and summarizes the responses.
func simulate(ctx context.Context, client inspectorclient.Inspector, records []generator.Record, progress progressAdder, interval time.Duration, continueOnError bool) (*SimulationStats, error) {
	s := &SimulationStats{}
	confidences := make([]float64, 0, len(records))
	for i, record := range records {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}

		req, err := newSimulatedRequest(record)
		if err != nil {
			return nil, err
		}

		resp, err := client.PredictWithContext(ctx, req)
		if err != nil {
			if !continueOnError {
				return nil, err
			}

			logger.Warnf("predict %s failed: %v", req.Timestamp, err)
			s.ErrorCount++
			progress.Add(1) // nolint: errcheck
			continue
		}

		s.TotalPredictions++
		if resp.Prediction == pkgtypes.LabelPass {
			s.PassCount++
		} else {
			s.FailCount++
		}
		confidences = append(confidences, resp.Confidence)
		progress.Add(1) // nolint: errcheck
	}

	if len(confidences) > 0 {
		mean, err := stats.Mean(confidences)
		if err != nil {
			return nil, err
		}

		if s.AverageConfidence, err = stats.Round(mean, 2); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// newSimulatedRequest converts record to a prediction request carrying all six features.
func newSimulatedRequest(record generator.Record) (*types.PredictRequest, error) {
	b, err := json.Marshal(map[string]float64{
		"vibration": record.Vibration,
		"current":   record.Current,
		"voltage":   record.Voltage,
	})
	if err != nil {
		return nil, err
	}

	temperature, pressure, humidity := record.Temperature, record.Pressure, record.Humidity
	additionalFeatures := string(b)
	return &types.PredictRequest{
		Timestamp:          record.Timestamp.Format(predictTimestampLayout),
		Temperature:        &temperature,
		Pressure:           &pressure,
		Humidity:           &humidity,
		AdditionalFeatures: &additionalFeatures,
	}, nil
}
