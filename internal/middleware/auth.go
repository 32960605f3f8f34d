package middleware

import (
	"strings"

	"hctf_backend/internal/config"
	"hctf_backend/internal/service"
	"hctf_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 解析 JWT 并从存储加载最新的队伍行。
// 每次请求都回源读取，封禁置位后立即对后续请求生效，不存在陈旧窗口。
func AuthMiddleware(cfg *config.Config, teams service.TeamStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		team, err := teams.FindByID(claims.TeamID)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("team", team)
		c.Next()
	}
}

// AdminMiddleware 仅管理员队伍可通过，需在 AuthMiddleware 之后挂载
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		team := util.GetTeamFromContext(c)
		if team == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !team.Admin {
			util.Forbidden(c, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
