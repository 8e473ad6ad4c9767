package chat

import (
	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/gin-gonic/gin"
)

// Register routes for the chat module
func RegisterRoutes(g *gin.RouterGroup, svc *concierge.Service, middleware ...gin.HandlerFunc) {
	ctrl := &Controller{svc: svc}

	// Create base group for chat routes
	group := g.Group("/chat", middleware...)

	group.GET("/quick-replies", ctrl.ListQuickReplies)

	// Session management routes
	group.POST("/sessions", ctrl.CreateSession)                          // Create a new session
	group.GET("/sessions/:uuid", ctrl.GetSession)                        // Get an existing session by UUID
	group.DELETE("/sessions/:uuid", ctrl.DeleteSession)                  // Delete an existing session
	group.POST("/sessions/:uuid/message", ctrl.PostMessage)              // Send free text
	group.POST("/sessions/:uuid/quick-replies/:id", ctrl.PostQuickReply) // Press a quick reply button
	group.POST("/sessions/:uuid/reset", ctrl.ResetSession)               // Clear the conversation
}
