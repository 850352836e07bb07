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
	"image/color"
	"strconv"

	"github.com/sjwhitworth/golearn/evaluation"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/intelliinspect/inspector/inspector/training/models"
)

const (
	confusionChartWidth  = 8 * vg.Inch
	confusionChartHeight = 6 * vg.Inch
)

// classes are ordered by their axis value, the y axis is flipped
// so that Fail is drawn on top.
var classes = []string{models.ClassFail, models.ClassPass}

// blues is a sequential palette from white to dark blue.
type blues []color.Color

func (b blues) Colors() []color.Color { return b }

func newBlues(n int) blues {
	light := color.RGBA{R: 247, G: 251, B: 255, A: 255}
	dark := color.RGBA{R: 8, G: 48, B: 107, A: 255}
	b := make(blues, n)
	for i := range b {
		f := float64(i) / float64(n-1)
		b[i] = color.RGBA{
			R: uint8(float64(light.R) + f*(float64(dark.R)-float64(light.R))),
			G: uint8(float64(light.G) + f*(float64(dark.G)-float64(light.G))),
			B: uint8(float64(light.B) + f*(float64(dark.B)-float64(light.B))),
			A: 255,
		}
	}

	return b
}

// confusionGrid adapts a confusion matrix to plotter.GridXYZ,
// columns are predicted classes and rows are true classes.
type confusionGrid struct {
	counts [2][2]float64
}

func newConfusionGrid(cm evaluation.ConfusionMatrix) *confusionGrid {
	g := &confusionGrid{}
	for c, predicted := range classes {
		for r := range classes {
			g.counts[c][r] = float64(cm[trueClass(r)][predicted])
		}
	}

	return g
}

// trueClass returns the true class of row r.
func trueClass(r int) string {
	return classes[len(classes)-1-r]
}

func (g *confusionGrid) Dims() (int, int) { return 2, 2 }
func (g *confusionGrid) Z(c, r int) float64 { return g.counts[c][r] }
func (g *confusionGrid) X(c int) float64 { return float64(c) }
func (g *confusionGrid) Y(r int) float64 { return float64(r) }

func (g *confusionGrid) max() (v float64) {
	for c := range g.counts {
		for r := range g.counts[c] {
			if g.counts[c][r] > v {
				v = g.counts[c][r]
			}
		}
	}
	return v
}

// ConfusionMatrix renders an annotated confusion matrix heatmap as a PNG image.
func ConfusionMatrix(cm evaluation.ConfusionMatrix) ([]byte, error) {
	grid := newConfusionGrid(cm)

	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted Label"
	p.Y.Label.Text = "True Label"

	heatmap := plotter.NewHeatMap(grid, newBlues(64))
	if heatmap.Min == heatmap.Max {
		heatmap.Max = heatmap.Min + 1
	}
	p.Add(heatmap)

	xys := make(plotter.XYs, 0, 4)
	values := make([]string, 0, 4)
	for c := range classes {
		for r := range classes {
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			values = append(values, strconv.Itoa(int(grid.Z(c, r))))
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: values})
	if err != nil {
		return nil, err
	}

	threshold := grid.max() / 2
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(16)
		labels.TextStyle[i].Color = color.Black
		if grid.Z(i/2, i%2) > threshold {
			labels.TextStyle[i].Color = color.White
		}
	}
	p.Add(labels)

	p.X.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: 0, Label: classes[0]},
		{Value: 1, Label: classes[1]},
	})
	p.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: 0, Label: trueClass(0)},
		{Value: 1, Label: trueClass(1)},
	})

	img := vgimg.NewWith(vgimg.UseWH(confusionChartWidth, confusionChartHeight), vgimg.UseDPI(dpi))
	p.Draw(draw.New(img))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
