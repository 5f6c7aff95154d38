package users

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"storefront/internal/filter"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuditLogWriter is implemented by the audit_logs feature; keeping it
// as an interface here avoids an import cycle between the two packages.
type AuditLogWriter interface {
	WriteEntityAudit(actorID *uuid.UUID, entity string, entityKey string, action string)
}

const tokenLifetime = time.Hour * 24 * 30

type UserService struct {
	users     *repository.Repository[User]
	parser    *filter.Parser
	jwtSecret string
	logger    *slog.Logger
	// audit log is never nil, DI always set it
	auditLogWriter AuditLogWriter
}

func NewUserService(
	users *repository.Repository[User],
	parser *filter.Parser,
	jwtSecret string,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		parser:    parser,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *UserService) SetAuditLogWriter(writer AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *UserService) SignIn(request *SignInRequestDTO) (*SignInResponseDTO, error) {
	user, err := s.GetUserByEmail(request.Email)
	if err != nil {
		return nil, errors.New("user with this email does not exist")
	}

	if user == nil {
		return nil, errors.New("user with this email does not exist")
	}

	if user.Status != UserStatusActive {
		return nil, errors.New("user account is deactivated")
	}

	if !user.HasPassword() {
		return nil, errors.New("user account has no password set")
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(request.Password))
	if err != nil {
		return nil, errors.New("password is incorrect")
	}

	response, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteEntityAudit(&user.ID, "users", user.ID.String(), "signin")

	return response, nil
}

func (s *UserService) GetUserByEmail(email string) (*User, error) {
	node := filter.ConditionNode("email", filter.OperatorEquals, email)

	result, err := s.users.FindAll(&node, nil, filter.Pagination{Page: 1, Limit: 1})
	if err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, nil
	}

	return &result.Data[0], nil
}

func (s *UserService) GetUserFromToken(token string) (*User, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("invalid token claims")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user no longer exists")
	}

	if !user.IsActiveUser() {
		return nil, errors.New("user account is deactivated")
	}

	return user, nil
}

func (s *UserService) GenerateAccessToken(user *User) (*SignInResponseDTO, error) {
	now := time.Now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"exp":  now.Add(tokenLifetime).Unix(),
		"iat":  now.Unix(),
		"role": string(user.Role),
	})

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &SignInResponseDTO{
		UserID: user.ID,
		Token:  tokenString,
	}, nil
}

func (s *UserService) ListUsers(values url.Values) (*repository.PaginatedResult[User], error) {
	node, sorts, pagination := s.parser.Parse(values)
	return s.users.FindAll(node, sorts, pagination)
}

func (s *UserService) GetUser(id uuid.UUID) (*User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.NewNotFoundError("user not found")
	}
	return user, nil
}

func (s *UserService) CreateUser(request *CreateUserRequestDTO, actor *User) (*User, error) {
	if !request.Role.IsValid() {
		return nil, repository.NewValidationError("invalid user role")
	}

	existing, err := s.GetUserByEmail(request.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.NewValidationError("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedPasswordStr := string(hashedPassword)

	user := &User{
		ID:             uuid.New(),
		Email:          request.Email,
		HashedPassword: &hashedPasswordStr,
		Role:           request.Role,
		Status:         UserStatusActive,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.users.CreateOne(user); err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteEntityAudit(&actor.ID, "users", user.ID.String(), "create")

	return user, nil
}

func (s *UserService) UpdateUser(id uuid.UUID, request *UpdateUserRequestDTO, actor *User) (*User, error) {
	patch := map[string]any{}

	if request.Email != nil {
		patch["email"] = *request.Email
	}
	if request.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch["hashed_password"] = string(hashedPassword)
	}
	if request.Role != nil {
		if !request.Role.IsValid() {
			return nil, repository.NewValidationError("invalid user role")
		}
		patch["role"] = string(*request.Role)
	}
	if request.Status != nil {
		if !request.Status.IsValid() {
			return nil, repository.NewValidationError("invalid user status")
		}
		patch["status"] = string(*request.Status)
	}

	if len(patch) == 0 {
		return nil, repository.NewValidationError("no fields to update")
	}

	user, err := s.users.UpdateByID(id, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteEntityAudit(&actor.ID, "users", id.String(), "update")

	return user, nil
}

func (s *UserService) DeleteUser(id uuid.UUID, actor *User) error {
	if actor.ID == id {
		return repository.NewValidationError("cannot delete your own account")
	}

	deleted, err := s.users.DeleteByID(id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.NewNotFoundError("user not found")
	}

	s.auditLogWriter.WriteEntityAudit(&actor.ID, "users", id.String(), "delete")

	return nil
}

func (s *UserService) ChangePassword(user *User, request *ChangePasswordRequestDTO) error {
	if !user.HasPassword() {
		return repository.NewValidationError("user account has no password set")
	}

	err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(request.OldPassword))
	if err != nil {
		return repository.NewValidationError("old password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.users.UpdateByID(user.ID, map[string]any{"hashed_password": string(hashedPassword)})
	if err != nil {
		return err
	}

	s.auditLogWriter.WriteEntityAudit(&user.ID, "users", user.ID.String(), "change_password")

	return nil
}

// ResetPasswordByEmail is the operator escape hatch behind the
// --new-password flag; it bypasses the old-password check.
func (s *UserService) ResetPasswordByEmail(email, newPassword string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return repository.NewNotFoundError("user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.users.UpdateByID(user.ID, map[string]any{"hashed_password": string(hashedPassword)})
	return err
}

// EnsureInitialAdmin creates the bootstrap administrator on first boot.
// When no password is configured a random one is generated and logged
// once, so the operator can sign in and change it.
func (s *UserService) EnsureInitialAdmin(email, password string) error {
	node := filter.ConditionNode("role", filter.OperatorEquals, string(UserRoleAdmin))

	result, err := s.users.FindAll(&node, nil, filter.Pagination{Page: 1, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if result.Total > 0 {
		return nil
	}

	generated := false
	if password == "" {
		password = uuid.NewString()
		generated = true
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	hashedPasswordStr := string(hashedPassword)

	admin := &User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: &hashedPasswordStr,
		Role:           UserRoleAdmin,
		Status:         UserStatusActive,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.users.CreateOne(admin); err != nil {
		return fmt.Errorf("failed to create initial admin: %w", err)
	}

	if generated {
		s.logger.Warn("created initial admin with generated password",
			"email", email, "password", password)
	} else {
		s.logger.Info("created initial admin", "email", email)
	}

	return nil
}
