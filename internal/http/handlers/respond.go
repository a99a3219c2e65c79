package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The error body is a flat {"error": "..."} so clients can render it
// directly. Internal detail never makes it into the message.

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message)
}
