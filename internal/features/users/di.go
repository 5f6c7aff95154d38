package users

import (
	"time"

	"storefront/internal/datasource"
	"storefront/internal/filter"
	"storefront/internal/repository"
	"storefront/internal/util/logger"

	"golang.org/x/time/rate"
)

type Module struct {
	Service    *UserService
	Controller *UserController
}

func NewModule(registry *datasource.Registry, jwtSecret string, maxPageLimit int) (*Module, error) {
	userRepository, err := repository.New[User](repository.EntityMeta{
		Table:      "users",
		PrimaryKey: []string{"id"},
	}, registry)
	if err != nil {
		return nil, err
	}

	service := NewUserService(userRepository, filter.NewParser(maxPageLimit), jwtSecret, logger.GetLogger())

	// 5 signin attempts per second, shared across clients
	signinLimiter := rate.NewLimiter(rate.Every(time.Second/5), 5)

	return &Module{
		Service:    service,
		Controller: NewUserController(service, signinLimiter),
	}, nil
}
