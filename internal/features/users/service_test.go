package users

import (
	"testing"
	"time"

	"storefront/internal/util/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTokenOnlyService(secret string) *UserService {
	// token and validation paths never touch the repository
	return NewUserService(nil, nil, secret, logger.GetLogger())
}

func Test_GenerateAccessToken_ValidUser_ContainsExpectedClaims(t *testing.T) {
	service := newTokenOnlyService(testSecret)
	user := &User{
		ID:     uuid.New(),
		Email:  "admin@example.com",
		Role:   UserRoleAdmin,
		Status: UserStatusActive,
	}

	response, err := service.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, response.UserID)

	parsed, err := jwt.Parse(response.Token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, string(UserRoleAdmin), claims["role"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Greater(t, int64(exp), time.Now().Unix())
}

func Test_GetUserFromToken_WrongSecret_ReturnsError(t *testing.T) {
	issuer := newTokenOnlyService("issuer-secret")
	verifier := newTokenOnlyService("different-secret")

	user := &User{ID: uuid.New(), Role: UserRoleMember, Status: UserStatusActive}
	response, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = verifier.GetUserFromToken(response.Token)
	assert.Error(t, err)
}

func Test_GetUserFromToken_MalformedToken_ReturnsError(t *testing.T) {
	service := newTokenOnlyService(testSecret)

	_, err := service.GetUserFromToken("not-a-jwt")
	assert.Error(t, err)
}

func Test_GetUserFromToken_UnexpectedSigningMethod_ReturnsError(t *testing.T) {
	service := newTokenOnlyService(testSecret)

	// alg=none tokens must never be accepted
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.GetUserFromToken(signed)
	assert.Error(t, err)
}

func Test_UpdateUser_InvalidRole_ReturnsValidationError(t *testing.T) {
	service := newTokenOnlyService(testSecret)
	invalidRole := UserRole("SUPERUSER")

	_, err := service.UpdateUser(
		uuid.New(),
		&UpdateUserRequestDTO{Role: &invalidRole},
		&User{ID: uuid.New()},
	)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid user role")
}

func Test_UpdateUser_EmptyPatch_ReturnsValidationError(t *testing.T) {
	service := newTokenOnlyService(testSecret)

	_, err := service.UpdateUser(uuid.New(), &UpdateUserRequestDTO{}, &User{ID: uuid.New()})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no fields to update")
}

func Test_DeleteUser_SelfDeletion_ReturnsValidationError(t *testing.T) {
	service := newTokenOnlyService(testSecret)
	actor := &User{ID: uuid.New()}

	err := service.DeleteUser(actor.ID, actor)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot delete your own account")
}

func Test_ChangePassword_WrongOldPassword_ReturnsValidationError(t *testing.T) {
	service := newTokenOnlyService(testSecret)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	hashedStr := string(hashed)

	user := &User{ID: uuid.New(), HashedPassword: &hashedStr}

	err = service.ChangePassword(user, &ChangePasswordRequestDTO{
		OldPassword: "wrong-password",
		NewPassword: "new-password-123",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "old password is incorrect")
}
