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
	"time"

	"github.com/spf13/cobra"

	"github.com/intelliinspect/inspector/inspector/types"
)

// predictTimestampLayout is the layout of the default sample timestamp.
const predictTimestampLayout = "2006-01-02T15:04:05"

var predictFlags struct {
	timestamp          string
	temperature        float64
	pressure           float64
	humidity           float64
	additionalFeatures string
}

var predictCmd = &cobra.Command{
	Use:          "predict",
	Short:        "predict pass or fail of a single sample",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := newPredictRequest(cmd.Flags().Changed("additional-features"))
		resp, err := newClient().PredictWithContext(cmd.Context(), req)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	flags := predictCmd.Flags()
	flags.StringVar(&predictFlags.timestamp, "timestamp", "", "timestamp of the sample, default is now")
	flags.Float64Var(&predictFlags.temperature, "temperature", 0, "temperature of the sample")
	flags.Float64Var(&predictFlags.pressure, "pressure", 0, "pressure of the sample")
	flags.Float64Var(&predictFlags.humidity, "humidity", 0, "humidity of the sample")
	flags.StringVar(&predictFlags.additionalFeatures, "additional-features", "", `json object of vibration, current and voltage, like: {"vibration": 5}`)

	for _, name := range []string{"temperature", "pressure", "humidity"} {
		if err := predictCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func newPredictRequest(withAdditionalFeatures bool) *types.PredictRequest {
	timestamp := predictFlags.timestamp
	if timestamp == "" {
		timestamp = time.Now().Format(predictTimestampLayout)
	}

	temperature, pressure, humidity := predictFlags.temperature, predictFlags.pressure, predictFlags.humidity
	req := &types.PredictRequest{
		Timestamp:   timestamp,
		Temperature: &temperature,
		Pressure:    &pressure,
		Humidity:    &humidity,
	}

	if withAdditionalFeatures {
		additionalFeatures := predictFlags.additionalFeatures
		req.AdditionalFeatures = &additionalFeatures
	}

	return req
}
