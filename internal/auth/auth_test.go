package auth

import (
	"context"
	"testing"
	"time"

	"github.com/adconnect/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-long-enough-123"

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT(testSecret, userID, models.RoleSponsor, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.Actor{UserID: userID, Role: models.RoleSponsor}, claims.Actor())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testSecret, uuid.New(), models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("another-secret", token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestParseJWTExpired(t *testing.T) {
	claims := Claims{
		UserID: uuid.New(),
		Role:   models.RoleInfluencer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    issuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseJWT(testSecret, token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWTRejectsUnknownRole(t *testing.T) {
	claims := Claims{
		UserID: uuid.New(),
		Role:   models.Role("Admin"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			Issuer:    issuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseJWT(testSecret, token)
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := PasswordHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, h.Compare(hash, "s3cret-pass"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)
}

type fakeDenylist map[string]bool

func (d fakeDenylist) Revoke(_ context.Context, id string, _ time.Duration) error {
	d[id] = true
	return nil
}

func (d fakeDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	return d[id], nil
}

func TestVerifierRejectsRevokedToken(t *testing.T) {
	deny := fakeDenylist{}
	v := Verifier{Secret: testSecret, Denylist: deny}
	token, err := GenerateJWT(testSecret, uuid.New(), models.RoleInfluencer, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, deny.Revoke(context.Background(), claims.ID, time.Hour))
	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestVerifierWithoutDenylist(t *testing.T) {
	token, err := GenerateJWT(testSecret, uuid.New(), models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = Verifier{Secret: testSecret}.Verify(context.Background(), token)
	assert.NoError(t, err)
	_, err = Verifier{Secret: "other"}.Verify(context.Background(), token)
	assert.Error(t, err)
}
