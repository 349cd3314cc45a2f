package usecase

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

type UserService struct {
	UsersRepo *repository.UsersRepo
}

// CreateUser registers a new user with a hashed password
func (svc *UserService) CreateUser(ctx context.Context, user *model.User) error {
	if user.Username == "" {
		return errors.New("username is required")
	}

	existing, err := svc.UsersRepo.FindUserByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("username already exists")
	}

	hashed, err := services.HashPassword(user.Password)
	if err != nil {
		return err
	}

	user.UserID = utils.GenerateUserID()
	user.Password = hashed
	user.CreatedAt = time.Now()

	return svc.UsersRepo.AddUser(ctx, user)
}

func (svc *UserService) FindUser(ctx context.Context, userID string) (*model.User, error) {
	return svc.UsersRepo.FindUser(ctx, userID)
}

func (svc *UserService) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return svc.UsersRepo.FindUserByUsername(ctx, username)
}

// ChangePassword verifies the current password before storing a new hash
func (svc *UserService) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	user, err := svc.UsersRepo.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	match, err := services.VerifyPassword(user.Password, currentPassword)
	if err != nil || !match {
		return errors.New("incorrect password")
	}

	hashed, err := services.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return svc.UsersRepo.UpdateUserPassword(ctx, userID, hashed)
}

// EmailChangeCooldown is how long a user must wait between email changes.
const EmailChangeCooldown = 14 * 24 * time.Hour

// ErrEmailChangeRateLimited is returned when the cooldown has not elapsed.
var ErrEmailChangeRateLimited = errors.New("email can only be changed every 2 weeks")

func (svc *UserService) ChangeEmail(ctx context.Context, userID string, email string) error {
	user, err := svc.UsersRepo.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}
	if user.Email == email {
		return errors.New("new email is same as current email")
	}
	if !user.LastEmailChange.IsZero() && time.Since(user.LastEmailChange) < EmailChangeCooldown {
		return ErrEmailChangeRateLimited
	}

	return svc.UsersRepo.UpdateUserEmail(ctx, userID, email)
}

func (svc *UserService) DeleteUser(ctx context.Context, userID string) error {
	return svc.UsersRepo.DeleteUser(ctx, userID)
}
