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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/intelliinspect/inspector/inspector/config"
	"github.com/intelliinspect/inspector/pkg/types"
	"github.com/intelliinspect/inspector/version"
)

// Variables declared for metrics.
var (
	TrainStartedCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "training_started_total",
		Help:      "Counter of the number of the training started.",
	})

	TrainFailureCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "training_failure_total",
		Help:      "Counter of the number of failed training.",
	})

	TrainDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "training_duration_seconds",
		Help:      "Histogram of the time each training took.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	PredictCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "predict_total",
		Help:      "Counter of the number of the prediction.",
	}, []string{"prediction"})

	PredictFailureCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "predict_failure_total",
		Help:      "Counter of the number of failed prediction.",
	})

	AdditionalFeaturesFallbackCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "additional_features_fallback_total",
		Help:      "Counter of the number of malformed additional features replaced by defaults.",
	})

	DatasetRecordCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "dataset_records_total",
		Help:      "Counter of the number of exported dataset records.",
	})

	ModelVersionGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "model_version",
		Help:      "Version of the held model.",
	})

	VersionGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.InspectorMetricsName,
		Name:      "version",
		Help:      "Version info of the service.",
	}, []string{"major", "minor", "git_version", "git_commit", "platform", "build_time", "go_version", "go_tags", "go_gcflags"})
)

func New(cfg *config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	VersionGauge.WithLabelValues(version.Major, version.Minor, version.GitVersion, version.GitCommit, version.Platform, version.BuildTime, version.GoVersion, version.Gotags, version.Gogcflags).Set(1)
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
}
