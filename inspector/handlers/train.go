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

	"github.com/intelliinspect/inspector/inspector/types"
)

// @Summary Train Model
// @Description Train a model on synthetic data of the given date ranges, training failures are reported with success false
// @Tags Model
// @Accept json
// @Produce json
// @Param Train body types.TrainRequest true "Train"
// @Success 200 {object} types.TrainResponse
// @Failure 422
// @Router /train [post]
func (h *Handlers) Train(ctx *gin.Context) {
	var json types.TrainRequest
	if err := ctx.ShouldBindJSON(&json); err != nil {
		ctx.Error(err).SetType(gin.ErrorTypeBind) // nolint: errcheck
		return
	}

	ctx.JSON(http.StatusOK, h.service.Train(ctx.Request.Context(), json))
}
