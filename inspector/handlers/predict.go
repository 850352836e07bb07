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

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/intelliinspect/inspector/inspector/types"
)

// @Summary Predict
// @Description Predict one sensor reading with the held model
// @Tags Model
// @Accept json
// @Produce json
// @Param Predict body types.PredictRequest true "Predict"
// @Success 200 {object} types.PredictResponse
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /predict [post]
func (h *Handlers) Predict(ctx *gin.Context) {
	var json types.PredictRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.Error(err).SetType(gin.ErrorTypeBind) // nolint: errcheck
		return
	}

	resp, err := h.service.Predict(ctx.Request.Context(), json)
	if err != nil {
		ctx.Error(errors.Wrap(err, "Prediction error")) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
