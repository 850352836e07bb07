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

package generator

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultSeed is the seed of every generated dataset.
	DefaultSeed uint64 = 42

	// LabelPass is the response of a record passing inspection.
	LabelPass = 1

	// LabelFail is the response of a record failing inspection.
	LabelFail = 0

	// minChecksForPass is the number of range checks a passing record satisfies.
	minChecksForPass = 4
)

// ErrInvalidTime is returned when a timestamp cannot be parsed.
var ErrInvalidTime = errors.New("invalid time")

// timeLayouts are the accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Record is one synthetic sensor reading.
type Record struct {
	Timestamp   time.Time `csv:"timestamp" json:"timestamp"`
	Temperature float64   `csv:"temperature" json:"temperature"`
	Pressure    float64   `csv:"pressure" json:"pressure"`
	Humidity    float64   `csv:"humidity" json:"humidity"`
	Vibration   float64   `csv:"vibration" json:"vibration"`
	Current     float64   `csv:"current" json:"current"`
	Voltage     float64   `csv:"voltage" json:"voltage"`
	Response    int       `csv:"response" json:"response"`
}

// Features returns the feature vector of the record in model order.
func (r Record) Features() []float64 {
	return []float64{r.Temperature, r.Pressure, r.Humidity, r.Vibration, r.Current, r.Voltage}
}

// FeatureNames are the names of the model features in order.
var FeatureNames = []string{"temperature", "pressure", "humidity", "vibration", "current", "voltage"}

// Distribution is the gaussian distribution of one sensor field.
type Distribution struct {
	Mu    float64
	Sigma float64
}

// Distributions of the sensor fields, indexed like FeatureNames.
var Distributions = [6]Distribution{
	{Mu: 45, Sigma: 10},
	{Mu: 900, Sigma: 50},
	{Mu: 50, Sigma: 15},
	{Mu: 5, Sigma: 2},
	{Mu: 10, Sigma: 3},
	{Mu: 220, Sigma: 20},
}

// ParseTime parses a date or datetime string.
func ParseTime(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// Generate generates count records evenly spaced over [start, end]
// with the default seed.
func Generate(start, end string, count int) ([]Record, error) {
	return GenerateWithSeed(start, end, count, DefaultSeed)
}

// GenerateWithSeed generates count records evenly spaced over [start, end],
// the same seed and count always yield the same sensor values.
func GenerateWithSeed(start, end string, count int, seed uint64) ([]Record, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid record count %d", count)
	}

	startTime, err := ParseTime(start)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	endTime, err := ParseTime(end)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	records := make([]Record, count)
	for i, ts := range timestamps(startTime, endTime, count) {
		records[i].Timestamp = ts
	}

	// Every field draws all of its values before the next field starts.
	src := rand.NewSource(seed)
	columns := make([][]float64, len(Distributions))
	for i, d := range Distributions {
		normal := distuv.Normal{Mu: d.Mu, Sigma: d.Sigma, Src: src}
		columns[i] = make([]float64, count)
		for j := range columns[i] {
			columns[i][j] = normal.Rand()
		}
	}

	for i := range records {
		records[i].Temperature = columns[0][i]
		records[i].Pressure = columns[1][i]
		records[i].Humidity = columns[2][i]
		records[i].Vibration = columns[3][i]
		records[i].Current = columns[4][i]
		records[i].Voltage = columns[5][i]
		records[i].Response = Label(records[i].Temperature, records[i].Pressure, records[i].Humidity,
			records[i].Vibration, records[i].Current, records[i].Voltage)
	}

	return records, nil
}

// timestamps returns count instants evenly spaced over [start, end] inclusive.
func timestamps(start, end time.Time, count int) []time.Time {
	result := make([]time.Time, count)
	if count == 0 {
		return result
	}

	if count == 1 {
		result[0] = start
		return result
	}

	span := end.Sub(start)
	for i := range result {
		result[i] = start.Add(time.Duration(float64(span) * float64(i) / float64(count-1)))
	}
	result[count-1] = end

	return result
}

// Label returns the response of the sensor readings.
func Label(temperature, pressure, humidity, vibration, current, voltage float64) int {
	return LabelFromChecks([6]bool{
		temperature >= 20 && temperature <= 70,
		pressure >= 800 && pressure <= 1000,
		humidity >= 20 && humidity <= 80,
		vibration <= 8,
		current >= 5 && current <= 15,
		voltage >= 200 && voltage <= 240,
	})
}

// LabelFromChecks returns LabelPass when at least four checks hold.
func LabelFromChecks(checks [6]bool) int {
	var n int
	for _, ok := range checks {
		if ok {
			n++
		}
	}

	if n >= minChecksForPass {
		return LabelPass
	}

	return LabelFail
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	return gocsv.Marshal(records, w)
}

// ReadCSV reads records written by WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, err
	}

	return records, nil
}
