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

package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/intelliinspect/inspector/inspector/training/models"
)

const (
	// dpi of rendered images.
	dpi = 150

	trainingChartWidth  = 10 * vg.Inch
	trainingChartHeight = 6 * vg.Inch
)

var (
	trainColor = color.RGBA{B: 255, A: 255}
	validColor = color.RGBA{R: 255, A: 255}
)

// ErrEmptyHistory is returned when drawing a history without rounds.
var ErrEmptyHistory = errors.New("empty history")

// TrainingHistory renders accuracy and loss curves side by side as a PNG image.
func TrainingHistory(h *models.History) ([]byte, error) {
	if h == nil || h.Len() == 0 {
		return nil, ErrEmptyHistory
	}

	accuracy, err := historyPlot("Model Accuracy", "Accuracy", h.Rounds, h.TrainAccuracy, h.ValidAccuracy)
	if err != nil {
		return nil, fmt.Errorf("accuracy plot: %w", err)
	}

	loss, err := historyPlot("Model Loss", "Loss", h.Rounds, h.TrainLoss, h.ValidLoss)
	if err != nil {
		return nil, fmt.Errorf("loss plot: %w", err)
	}

	img := vgimg.NewWith(vgimg.UseWH(trainingChartWidth, trainingChartHeight), vgimg.UseDPI(dpi))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	plots := [][]*plot.Plot{{accuracy, loss}}
	canvases := plot.Align(plots, tiles, dc)
	for j, p := range plots[0] {
		p.Draw(canvases[0][j])
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func historyPlot(title, metric string, rounds []int, train, valid []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Boosting Round"
	p.Y.Label.Text = metric
	p.Add(plotter.NewGrid())

	trainLine, err := plotter.NewLine(points(rounds, train))
	if err != nil {
		return nil, err
	}
	trainLine.Color = trainColor
	trainLine.Width = vg.Points(1.5)
	p.Add(trainLine)
	p.Legend.Add(metric, trainLine)

	if len(valid) == len(rounds) {
		validLine, err := plotter.NewLine(points(rounds, valid))
		if err != nil {
			return nil, err
		}
		validLine.Color = validColor
		validLine.Width = vg.Points(1.5)
		p.Add(validLine)
		p.Legend.Add("Validation "+metric, validLine)
	}

	return p, nil
}

func points(rounds []int, values []float64) plotter.XYs {
	xys := make(plotter.XYs, len(rounds))
	for i := range rounds {
		xys[i].X = float64(rounds[i])
		xys[i].Y = values[i]
	}

	return xys
}

// Encode returns the standard base64 encoding of an image.
func Encode(image []byte) string {
	return base64.StdEncoding.EncodeToString(image)
}
