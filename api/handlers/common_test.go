// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/api/handlers/mocks"
	"github.com/meghashyamc/docsearch/apperror"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/validation"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testPort    = "8081"
	testBaseURL = "http://example.com:" + testPort
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	setupMock        func(m *mocks.MockFinder)
	expectedStatus   int
	expectedResponse any
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, *mocks.MockFinder) {

	testLogger := newTestLogger()
	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	ctrl := gomock.NewController(t)
	mockFinder := mocks.NewMockFinder(ctrl)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	Setup(router, testLogger, mockFinder, validator, testPort)

	return router, mockFinder
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}

	var jsonBody []byte
	if requestBodyMap != nil {
		var err error
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	req := httptest.NewRequest(method, endpoint, bytes.NewReader(jsonBody))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func runTestCases(t *testing.T, method string, endpoint string, testCases []testCase) {
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			router, mockFinder := setupTestServer(t, assert)
			if testCase.setupMock != nil {
				testCase.setupMock(mockFinder)
			}

			w := makeTestHTTPRequest(router, assert, method, endpoint, testCase.requestHeaders, testCase.requestBody, testCase.queryParams)
			responseBytes := w.Body.Bytes()
			assert.Equal(testCase.expectedStatus, w.Code, "response gotten was %s", string(responseBytes))

			if testCase.expectedResponse != nil {
				expected, err := json.Marshal(testCase.expectedResponse)
				assert.NoError(err)
				assert.JSONEq(string(expected), string(responseBytes))
			}
		})
	}
}

func errorResponse(code string, message string) apperror.Envelope {
	return apperror.Envelope{Code: code, Message: message}
}
