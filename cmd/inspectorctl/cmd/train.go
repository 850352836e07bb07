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
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	logger "github.com/intelliinspect/inspector/internal/inspectlog"
	"github.com/intelliinspect/inspector/inspector/types"
)

const (
	// confusionMatrixFilename is the file name of the saved confusion matrix chart.
	confusionMatrixFilename = "confusion_matrix.png"

	// trainingChartFilename is the file name of the saved training chart.
	trainingChartFilename = "training_chart.png"
)

var trainFlags struct {
	request   types.TrainRequest
	chartsDir string
}

var trainCmd = &cobra.Command{
	Use:          "train",
	Short:        "train a model over a train and a test date range",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().TrainWithContext(cmd.Context(), &trainFlags.request)
		if err != nil {
			return err
		}

		if !resp.Success {
			return fmt.Errorf("train failed: %s", resp.Message)
		}

		if trainFlags.chartsDir != "" {
			if err := saveCharts(trainFlags.chartsDir, resp); err != nil {
				return err
			}
			logger.Infof("charts saved to %s", trainFlags.chartsDir)
		}

		// Charts are large, print the scores only.
		resp.ConfusionMatrix = ""
		resp.TrainingChart = ""
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	flags := trainCmd.Flags()
	flags.StringVar(&trainFlags.request.TrainStart, "train-start", "", "start of the train range, like: 2021-01-01")
	flags.StringVar(&trainFlags.request.TrainEnd, "train-end", "", "end of the train range")
	flags.StringVar(&trainFlags.request.TestStart, "test-start", "", "start of the test range")
	flags.StringVar(&trainFlags.request.TestEnd, "test-end", "", "end of the test range")
	flags.StringVar(&trainFlags.chartsDir, "charts-dir", "", "directory to save the png charts, charts are discarded if empty")

	for _, name := range []string{"train-start", "train-end", "test-start", "test-end"} {
		if err := trainCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

// saveCharts decodes the base64 charts of resp into dir.
func saveCharts(dir string, resp *types.TrainResponse) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	charts := map[string]string{
		confusionMatrixFilename: resp.ConfusionMatrix,
		trainingChartFilename:   resp.TrainingChart,
	}

	for name, encoded := range charts {
		b, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		if err := os.WriteFile(filepath.Join(dir, name), b, 0644); err != nil {
			return err
		}
	}

	return nil
}
