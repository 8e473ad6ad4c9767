// Package page serves the server-rendered chat widget
package page

import (
	"embed"
	"html/template"

	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

var widget = template.Must(template.ParseFS(templates, "templates/widget.html"))

// RegisterRoutes registers the widget page and its form actions
func RegisterRoutes(g *gin.RouterGroup, svc *concierge.Service) {
	ctrl := &Controller{svc: svc, tmpl: widget}

	g.GET("/", ctrl.Show)
	g.POST("/message", ctrl.PostMessage)
	g.POST("/quick-replies/:id", ctrl.PostQuickReply)
	g.POST("/reset", ctrl.Reset)
}
