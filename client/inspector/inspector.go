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

//go:generate mockgen -destination mocks/inspector_mock.go -source inspector.go -package mocks

package inspector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-http-utils/headers"

	"github.com/intelliinspect/inspector/inspector/types"
)

const (
	// DefaultEndpoint is the default address of the inspector service.
	DefaultEndpoint = "http://127.0.0.1:8000"

	// mimeJSON is the content type of request bodies.
	mimeJSON = "application/json"

	// mimeCSV is the content type of the dataset.
	mimeCSV = "text/csv"
)

// Inspector is the interface used for calling the inspector service.
type Inspector interface {
	// HealthWithContext returns the liveness of the service.
	HealthWithContext(ctx context.Context) (*types.HealthResponse, error)

	// TrainWithContext trains a model over the given ranges.
	TrainWithContext(ctx context.Context, input *types.TrainRequest) (*types.TrainResponse, error)

	// PredictWithContext predicts a single sample.
	PredictWithContext(ctx context.Context, input *types.PredictRequest) (*types.PredictResponse, error)

	// ModelInfoWithContext returns information of the current model.
	ModelInfoWithContext(ctx context.Context) (*types.ModelInfoResponse, error)

	// DatasetWithContext returns the csv export of synthetic records, the caller closes it.
	DatasetWithContext(ctx context.Context, input *types.DatasetQuery) (io.ReadCloser, error)
}

// StatusError is returned when the service answers with a non 2xx status.
type StatusError struct {
	// StatusCode is the http status code.
	StatusCode int

	// Message is the message of the error response body.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bad response status %d", e.StatusCode)
	}

	return fmt.Sprintf("bad response status %d: %s", e.StatusCode, e.Message)
}

type errorResponse struct {
	Message string `json:"message"`
	Errors  string `json:"errors"`
}

type inspector struct {
	endpoint   string
	httpClient *http.Client
}

// Option is a functional option for configuring the inspector client.
type Option func(i *inspector)

// WithHTTPClient set http client for the inspector client.
func WithHTTPClient(client *http.Client) Option {
	return func(i *inspector) {
		i.httpClient = client
	}
}

// New inspector client instance.
func New(endpoint string, options ...Option) Inspector {
	i := &inspector{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}

	for _, opt := range options {
		opt(i)
	}

	return i
}

func (i *inspector) HealthWithContext(ctx context.Context) (*types.HealthResponse, error) {
	var resp types.HealthResponse
	if err := i.do(ctx, http.MethodGet, "/health", nil, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (i *inspector) TrainWithContext(ctx context.Context, input *types.TrainRequest) (*types.TrainResponse, error) {
	var resp types.TrainResponse
	if err := i.do(ctx, http.MethodPost, "/train", nil, input, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (i *inspector) PredictWithContext(ctx context.Context, input *types.PredictRequest) (*types.PredictResponse, error) {
	var resp types.PredictResponse
	if err := i.do(ctx, http.MethodPost, "/predict", nil, input, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (i *inspector) ModelInfoWithContext(ctx context.Context) (*types.ModelInfoResponse, error) {
	var resp types.ModelInfoResponse
	if err := i.do(ctx, http.MethodGet, "/model/info", nil, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (i *inspector) DatasetWithContext(ctx context.Context, input *types.DatasetQuery) (io.ReadCloser, error) {
	query := url.Values{}
	query.Set("start", input.Start)
	query.Set("end", input.End)
	if input.Count != nil {
		query.Set("count", strconv.Itoa(*input.Count))
	}

	req, err := i.newRequest(ctx, http.MethodGet, "/dataset", query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(headers.Accept, mimeCSV)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	return resp.Body, nil
}

// newRequest builds a request of the endpoint, body is encoded as json if not nil.
func (i *inspector) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u, err := url.Parse(i.endpoint)
	if err != nil {
		return nil, err
	}

	u = u.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set(headers.ContentType, mimeJSON)
	}
	req.Header.Set(headers.Accept, mimeJSON)

	return req, nil
}

func (i *inspector) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := i.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	e := &StatusError{StatusCode: resp.StatusCode}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		e.Message = body.Message
		if body.Errors != "" {
			e.Message = fmt.Sprintf("%s: %s", body.Message, body.Errors)
		}
	}

	return e
}
