package analysis

import "github.com/gin-gonic/gin"

type IHandler interface {
	AverageDurations(c *gin.Context)
}
