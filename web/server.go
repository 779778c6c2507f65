// Package web is the Telegram Web App API: it authenticates init data,
// syncs the client cart and hands placed orders to the bot's checkout
// progression.
package web

import (
	"shop-telegram/bot"
	"shop-telegram/config"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg *config.Config
	bot *bot.Bot
}

func New(cfg *config.Config, b *bot.Bot) *Server {
	return &Server{cfg: cfg, bot: b}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.POST("/cart/update", s.handleCartUpdate)
	api.POST("/place-order", s.handlePlaceOrder)
	api.POST("/cancel-incomplete-order", s.handleCancelIncompleteOrder)

	auth := r.Group("/auth")
	auth.POST("", s.handleAuth)
	auth.POST("/check_role", s.handleCheckRole)

	return r
}

func (s *Server) Run() error {
	return s.Router().Run(s.cfg.Server.Addr)
}
