package apierror

import (
	"errors"
	"net/http"

	"storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

// Respond writes the HTTP response for a storage error. Unknown errors
// are reported as a generic 500 so internal details never leak.
func Respond(ctx *gin.Context, err error) {
	var storageErr *repository.StorageError
	if !errors.As(err, &storageErr) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch storageErr.Kind {
	case repository.ErrorKindValidation:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": storageErr.Message})
	case repository.ErrorKindNotFound:
		ctx.JSON(http.StatusNotFound, gin.H{"error": storageErr.Message})
	case repository.ErrorKindConstraint:
		ctx.JSON(http.StatusConflict, gin.H{"error": storageErr.Message})
	case repository.ErrorKindConnectivity:
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Datasource temporarily unavailable",
			"recovered": storageErr.Recovered,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
