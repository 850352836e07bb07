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

	logger "github.com/intelliinspect/inspector/internal/inspectlog"
	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/types"
)

const (
	// datasetFilename is the file name suggested for exported datasets.
	datasetFilename = "dataset.csv"
)

// @Summary Get Dataset
// @Description Export synthetic records of a date range as csv
// @Tags Dataset
// @Produce text/csv
// @Param start query string true "range start"
// @Param end query string true "range end"
// @Param count query int false "number of records, default 100"
// @Success 200
// @Failure 400
// @Failure 422
// @Router /dataset [get]
func (h *Handlers) GetDataset(ctx *gin.Context) {
	var query types.DatasetQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.Error(err).SetType(gin.ErrorTypeBind) // nolint: errcheck
		return
	}

	records, err := h.service.Dataset(query)
	if err != nil {
		ctx.Error(err) // nolint: errcheck
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", "attachment; filename="+datasetFilename)
	ctx.Status(http.StatusOK)
	if err := generator.WriteCSV(ctx.Writer, records); err != nil {
		logger.Errorf("write dataset failed: %v", err)
	}
}
