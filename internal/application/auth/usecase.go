package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain/repository"
	"github.com/jhoicas/procura-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenUseCase emite tokens para usuarios sembrados. La identidad real vive en un
// proveedor externo; esto alimenta el CLI de seed y el endpoint de desarrollo.
type TokenUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewTokenUseCase construye el caso de uso.
func NewTokenUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *TokenUseCase {
	return &TokenUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Issue genera un token firmado con el rol del usuario. NotFound si el usuario no existe.
func (uc *TokenUseCase) Issue(ctx context.Context, userID string) (*dto.TokenResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:  token,
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	}, nil
}
