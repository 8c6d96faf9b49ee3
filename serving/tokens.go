package serving

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenDuration = time.Hour * 24

// createToken builds a new token for a given login using its secret
func createToken(userName string, userSecret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"user": userName,
			"exp":  time.Now().Add(TokenDuration).Unix(),
		})

	if token, err := token.SignedString([]byte(userSecret)); err != nil {
		return "", err
	} else {
		return token, nil
	}
}

// validateAuthentication reads header and then test if login matches its expected secret.
// Result is login coming from request, true for auth success, the detailed error otherwise
func validateAuthentication(wrapper ServiceParameters, r *http.Request) (string, bool, error) {
	// header should contain Authorization: Bearer <token>
	if r == nil {
		return "", false, fmt.Errorf("empty request")
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false, nil
	}

	// secret depends on the user in the claims
	var login string
	expectedSecretFunc := func(token *jwt.Token) (interface{}, error) {
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, errors.New("invalid claims")
		} else if user, ok := claims["user"].(string); !ok || len(user) == 0 {
			return nil, errors.New("no user in token")
		} else {
			login = user
		}

		if secret, err := wrapper.Dao.FindSecretForActiveUser(wrapper.Ctx, login); err != nil {
			return nil, err
		} else {
			return []byte(secret), nil
		}
	}

	tokenValue := strings.TrimSpace(header[len("Bearer "):])
	token, err := jwt.Parse(tokenValue, expectedSecretFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case err == nil && token.Valid:
		return login, true, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return login, false, fmt.Errorf("malformed token")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return login, false, fmt.Errorf("invalid signature")
	case errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet):
		return login, false, fmt.Errorf("invalid token period")
	default:
		return login, false, err
	}
}
