package identity

import (
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/model"
)

func UserInfo(user model.User, permissions []string) dto.UserInfo {
	perms := make([]dto.Permission, 0, len(permissions))
	for _, p := range permissions {
		perms = append(perms, dto.Permission{NamePermission: p})
	}
	return dto.UserInfo{
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Permissions: perms,
	}
}

func UserWithRole(user model.User) dto.UserWithRoleDto {
	created := user.CreatedAt
	updated := user.UpdatedAt
	return dto.UserWithRoleDto{
		Email:     user.Email,
		NameUser:  user.Name,
		Role:      user.Role,
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}
