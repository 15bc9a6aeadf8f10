package seed

import (
	"context"

	"donorconnect/internal/auth"
	"donorconnect/pkg/types"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     types.Role
}

var demoUsers = []seedUser{
	{Name: "Admin User", Email: "admin@donorconnect.com", Password: "admin123", Role: types.RoleAdmin},
	{Name: "Staff Member", Email: "staff@donorconnect.com", Password: "staff123", Role: types.RoleStaff},
}

func SeedUsers(ctx context.Context, repo UserCreator) ([]*types.User, error) {
	users := make([]*types.User, 0, len(demoUsers))
	for _, su := range demoUsers {
		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			return nil, wrap("users", err)
		}

		user := &types.User{
			Name:     su.Name,
			Email:    su.Email,
			Password: hash,
			Role:     su.Role,
		}

		if err := repo.CreateUser(ctx, user); err != nil {
			return nil, wrap("users", err)
		}

		users = append(users, user)
	}

	return users, nil
}
