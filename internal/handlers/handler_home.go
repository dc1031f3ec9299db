package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary API landing route.
// @Description Returns a greeting so load balancers and humans can tell the API is up.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Hello from the Nokplus Approval Engine API v1"})
}

func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", getHome)
}
