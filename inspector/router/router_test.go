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

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/intelliinspect/inspector/inspector/config"
	"github.com/intelliinspect/inspector/inspector/model"
	"github.com/intelliinspect/inspector/inspector/service/mocks"
	"github.com/intelliinspect/inspector/inspector/types"
)

func TestRouter_Init(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		origin string
		mock   func(ms *mocks.MockServiceMockRecorder)
		expect func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:   "health",
			method: http.MethodGet,
			path:   "/health",
			mock: func(ms *mocks.MockServiceMockRecorder) {
				ms.Health().Return(&types.HealthResponse{Status: "healthy"}).Times(1)
			},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert := assert.New(t)
				assert.Equal(http.StatusOK, w.Code)
			},
		},
		{
			name:   "model info",
			method: http.MethodGet,
			path:   "/model/info",
			mock: func(ms *mocks.MockServiceMockRecorder) {
				ms.ModelInfo().Return(&types.ModelInfoResponse{Message: "No model trained yet"}).Times(1)
			},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert := assert.New(t)
				assert.Equal(http.StatusOK, w.Code)
				assert.Equal(`{"message":"No model trained yet"}`, w.Body.String())
			},
		},
		{
			name:   "allow all origins",
			method: http.MethodGet,
			path:   "/model/info",
			origin: "http://example.com",
			mock: func(ms *mocks.MockServiceMockRecorder) {
				ms.ModelInfo().Return(&types.ModelInfoResponse{Message: "No model trained yet"}).Times(1)
			},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert := assert.New(t)
				assert.Equal(http.StatusOK, w.Code)
				assert.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
			},
		},
		{
			name:   "predict without model",
			method: http.MethodPost,
			path:   "/predict",
			mock: func(ms *mocks.MockServiceMockRecorder) {
				ms.Predict(gomock.Any(), gomock.Any()).Return(nil, model.ErrNotTrained).Times(1)
			},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert := assert.New(t)
				assert.Equal(http.StatusBadRequest, w.Code)
			},
		},
		{
			name:   "unknown route",
			method: http.MethodGet,
			path:   "/foo",
			mock:   func(ms *mocks.MockServiceMockRecorder) {},
			expect: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert := assert.New(t)
				assert.Equal(http.StatusNotFound, w.Code)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()
			svc := mocks.NewMockService(ctl)
			tc.mock(svc.EXPECT())

			var body *strings.Reader
			if tc.method == http.MethodPost {
				body = strings.NewReader(`{"timestamp": "2021-01-01", "temperature": 45, "pressure": 900, "humidity": 50}`)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			w := httptest.NewRecorder()
			Init(config.New(), svc).ServeHTTP(w, req)
			tc.expect(t, w)
		})
	}
}
