package assets

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/models"
)

type AssetRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetRepository {
	return &AssetRepository{repository: r}
}

func (r *AssetRepository) GetAssets() ([]models.Asset, error) {
	var assets []models.Asset

	query := r.repository.GoquDBWrapper.
		From("assets").
		Select("id", "type", "description", "created_at").
		Order(goqu.C("type").Asc(), goqu.C("description").Asc())

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return assets, nil
}

func (r *AssetRepository) GetAsset(id int) (*models.Asset, error) {
	var asset models.Asset

	query := r.repository.GoquDBWrapper.
		From("assets").
		Select("id", "type", "description", "created_at").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &asset, nil
}

func (r *AssetRepository) PersistAsset(req models.CreateAssetRequest) (*models.Asset, error) {
	asset := models.Asset{
		Type:        req.Type,
		Description: req.Description,
	}

	query := r.repository.GoquDBWrapper.Insert("assets").
		Rows(goqu.Record{
			"type":        req.Type,
			"description": req.Description,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(&asset); err != nil {
		return nil, fmt.Errorf("failed to insert asset: %w", err)
	}

	return &asset, nil
}
