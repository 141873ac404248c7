package util

import "github.com/gin-gonic/gin"

func SuccessResponse(data interface{}) gin.H {
	return gin.H{
		"success": true,
		"data":    data,
	}
}

/*
* Only classified errors expose their message.
* Anything else is reported as a generic internal error.
 */
func FailedResponse(err error) gin.H {
	message := INTERNAL_SERVER_ERROR
	if appErr, ok := AsAppError(err); ok && appErr.Kind != KindInternal {
		message = appErr.Message
	}
	return gin.H{
		"success": false,
		"error":   message,
	}
}

// StatusFor returns the HTTP status an error should be answered with.
func StatusFor(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind.HTTPStatus()
	}
	return KindInternal.HTTPStatus()
}
