package utils

import (
	"strconv"
	"user-registration/app/server/models"
	"user-registration/app/server/types"
)

func UintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func UserInfo(user *models.User) *types.UserInfo {
	return &types.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		IsAdmin:  user.IsAdmin,
		Image:    user.Image,
	}
}
