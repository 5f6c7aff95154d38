package apierror

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	Respond(ctx, err)

	return recorder
}

func Test_Respond_ValidationError_Returns400(t *testing.T) {
	recorder := respond(repository.NewValidationError("bad input"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "bad input")
}

func Test_Respond_NotFoundError_Returns404(t *testing.T) {
	recorder := respond(repository.NewNotFoundError("row missing"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func Test_Respond_ConstraintError_Returns409(t *testing.T) {
	recorder := respond(&repository.StorageError{
		Kind:    repository.ErrorKindConstraint,
		Message: "duplicate key",
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func Test_Respond_ConnectivityError_Returns503WithRecoveredFlag(t *testing.T) {
	recorder := respond(&repository.StorageError{
		Kind:      repository.ErrorKindConnectivity,
		Message:   "store down",
		Recovered: true,
	})

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"recovered":true`)
}

func Test_Respond_UnknownError_Returns500WithoutDetails(t *testing.T) {
	recorder := respond(errors.New("pq: something leaked"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "leaked")
}
