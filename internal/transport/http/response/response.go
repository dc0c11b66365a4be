package response

import "github.com/gin-gonic/gin"

// ErrorBody mirrors the wire contract clients parse: failures carry a
// human-readable "detail" field.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func Error(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, ErrorBody{Detail: detail})
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}
