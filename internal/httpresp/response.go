package httpresp

import "github.com/gin-gonic/gin"

type DataResponse struct {
	Data any `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, DataResponse{Data: data})
}

func Created(c *gin.Context, message string) {
	c.JSON(201, gin.H{"message": message})
}
