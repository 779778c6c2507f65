package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// initDataTTL bounds how old a signed init data blob may be.
const initDataTTL = 24 * time.Hour

// userID verifies the signed init data and extracts the sender's id. The
// signature check is fully delegated to the init-data library; on failure
// the request is answered and ok=false.
func (s *Server) userID(c *gin.Context, initData string) (int64, bool) {
	if initData == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "detail": "Invalid or missing initData"})
		return 0, false
	}
	if err := initdata.Validate(initData, s.cfg.Telegram.Token, initDataTTL); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "detail": "Invalid or missing initData"})
		return 0, false
	}
	data, err := initdata.Parse(initData)
	if err != nil || data.User.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": "Invalid user data format"})
		return 0, false
	}
	return data.User.ID, true
}
