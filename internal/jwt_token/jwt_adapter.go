package jwttoken

import (
	"oleobot/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *GatewayClaims) *middleware.GatewayClaims {
	return &middleware.GatewayClaims{
		GatewayID: claims.GatewayID,
		TokenID:   claims.ID,
	}
}

// JWTServiceAdapter lets RequireGateway validate tokens through JWTService.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.GatewayClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
