package jwt

import (
	"fmt"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies identity tokens issued by the platform's auth service.
// The attendance engine never issues end-user tokens itself; GenerateToken
// exists for tooling and tests.
type Service interface {
	GenerateToken(employeeID, companyID string, role user.Role, expiresIn time.Duration) (string, error)
	JWTAuth() *jwtauth.JWTAuth
}

type jwtService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &jwtService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *jwtService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *jwtService) GenerateToken(employeeID, companyID string, role user.Role, expiresIn time.Duration) (string, error) {
	claims := map[string]interface{}{
		"employee_id": employeeID,
		"company_id":  companyID,
		"role":        string(role),
		"exp":         time.Now().Add(expiresIn).Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return tokenString, nil
}
