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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intelliinspect/inspector/inspector/config"
)

func TestMetrics_New(t *testing.T) {
	assert := assert.New(t)
	svr := New(&config.MetricsConfig{Enable: true, Addr: ":9000"})
	assert.Equal(":9000", svr.Addr)

	PredictCount.WithLabelValues("Pass").Inc()
	ModelVersionGauge.Set(3)

	w := httptest.NewRecorder()
	svr.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(strings.Contains(body, "intelliinspect_inspector_version{"))
	assert.True(strings.Contains(body, `intelliinspect_inspector_predict_total{prediction="Pass"}`))
	assert.True(strings.Contains(body, "intelliinspect_inspector_model_version 3"))
}
