package util

import (
	"time"

	"hctf_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	TeamID uint   `json:"team_id"`
	Name   string `json:"name"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

func GenerateJWT(team *model.Team, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		TeamID: team.ID,
		Name:   team.Name,
		Admin:  team.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

// GetTeamFromContext 取 AuthMiddleware 加载的当前队伍
func GetTeamFromContext(c *gin.Context) *model.Team {
	team, exists := c.Get("team")
	if !exists {
		return nil
	}
	t, ok := team.(*model.Team)
	if !ok {
		return nil
	}
	return t
}
