package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON body of every failed request
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ListBody wraps a collection result
type ListBody struct {
	Items interface{} `json:"items"`
}

// ItemBody wraps an optional single result, null when absent
type ItemBody struct {
	Item interface{} `json:"item"`
}

// OK writes data with status 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes data with status 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Items writes {"items": items}, never null
func Items(c *gin.Context, items interface{}) {
	if items == nil {
		items = []struct{}{}
	}
	c.JSON(http.StatusOK, ListBody{Items: items})
}

// Item writes {"item": item}
func Item(c *gin.Context, item interface{}) {
	c.JSON(http.StatusOK, ItemBody{Item: item})
}

// Error writes an error body and aborts the chain
func Error(c *gin.Context, status int, code, errMsg, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:   errMsg,
		Code:    code,
		Message: message,
	})
}

func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err.Error())
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message, "")
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message, "")
}
