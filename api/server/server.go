package server

import (
	"github.com/gin-gonic/gin"

	"github.com/FolkiDevv/partysys/api/routes"
)

type Server struct {
	router *gin.Engine
}

func NewServer() *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		router: gin.Default(),
	}
}

func (s *Server) SetupRoutes() {
	routes.SetupRoutes(s.router)
}

func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
