package users

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/models"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) (*models.User, error)
	GetUser(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsers() ([]models.User, error)
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest, hashedPassword []byte) (*models.User, error) {
	user := models.User{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		BaseID: req.BaseID,
	}

	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"name":          req.Name,
			"email":         req.Email,
			"password_hash": string(hashedPassword),
			"role":          req.Role,
			"base_id":       req.BaseID,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

func (r *userRepositoryImpl) GetUser(id int) (*models.User, error) {
	var user models.User

	query := r.repository.GoquDBWrapper.
		From("users").
		Select("id", "name", "email", "password_hash", "role", "base_id", "created_at").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *userRepositoryImpl) GetUserByEmail(email string) (*models.User, error) {
	var user models.User

	query := r.repository.GoquDBWrapper.
		From("users").
		Select("id", "name", "email", "password_hash", "role", "base_id", "created_at").
		Where(goqu.Ex{"email": email})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	var users []models.User

	query := r.repository.GoquDBWrapper.
		From("users").
		Select("id", "name", "email", "role", "base_id", "created_at").
		Order(goqu.C("id").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}
