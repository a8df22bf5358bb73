package jobs

import "github.com/gin-gonic/gin"

type IHandler interface {
	TriggerSync(c *gin.Context)
	TriggerBackfill(c *gin.Context)
	Status(c *gin.Context)
}
