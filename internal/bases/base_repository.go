package bases

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/models"
)

type BaseRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *BaseRepository {
	return &BaseRepository{repository: r}
}

func (r *BaseRepository) GetBases() ([]models.Base, error) {
	var bases []models.Base

	query := r.repository.GoquDBWrapper.
		From("bases").
		Select("id", "name", "location", "created_at").
		Order(goqu.C("name").Asc())

	if err := query.Executor().ScanStructs(&bases); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return bases, nil
}

func (r *BaseRepository) GetBase(id int) (*models.Base, error) {
	var base models.Base

	query := r.repository.GoquDBWrapper.
		From("bases").
		Select("id", "name", "location", "created_at").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&base)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &base, nil
}

func (r *BaseRepository) PersistBase(req models.CreateBaseRequest) (*models.Base, error) {
	base := models.Base{
		Name:     req.Name,
		Location: req.Location,
	}

	query := r.repository.GoquDBWrapper.Insert("bases").
		Rows(goqu.Record{
			"name":     req.Name,
			"location": req.Location,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(&base); err != nil {
		return nil, fmt.Errorf("failed to insert base: %w", err)
	}

	return &base, nil
}
