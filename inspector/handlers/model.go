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
)

// @Summary Get Model Info
// @Description Get the type, features and metrics of the held model
// @Tags Model
// @Accept json
// @Produce json
// @Success 200 {object} types.ModelInfoResponse
// @Router /model/info [get]
func (h *Handlers) GetModelInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.service.ModelInfo())
}
