package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eerr/eerr-dashboard/internal/parsererror"
	"eerr/eerr-dashboard/internal/statement"
)

// Response is the envelope of every JSON reply. Code is 0 on success and the
// HTTP status otherwise.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: msg})
}

// failErr maps domain errors to HTTP statuses.
func failErr(c *gin.Context, err error) {
	var (
		sheetErr  *parsererror.SheetNotFoundError
		headerErr *parsererror.HeaderNotFoundError
		formatErr *parsererror.InvalidFormatError
		valErr    *parsererror.ValidationError
	)
	switch {
	case errors.Is(err, statement.ErrNoData):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, parsererror.ErrEmptyWorkbook),
		errors.As(err, &sheetErr),
		errors.As(err, &headerErr),
		errors.As(err, &formatErr):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &valErr):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
