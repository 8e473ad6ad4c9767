package health

import (
	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/gin-gonic/gin"
)

// SessionCounter reports how many conversations are live
type SessionCounter interface {
	SessionCount() int
}

type status struct {
	Sessions int `json:"sessions"`
}

// Return status of the API
func getStatus(counter SessionCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := api_types.NewSuccessResponse("OK", status{Sessions: counter.SessionCount()})
		c.JSON(res.AsGinResponse())
	}
}
