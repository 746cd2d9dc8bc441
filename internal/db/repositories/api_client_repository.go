package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/models/entities"
)

type ApiClientRepo struct {
	db *sqlx.DB
}

func NewApiClientRepo(db *sqlx.DB) *ApiClientRepo {
	return &ApiClientRepo{db}
}

func (r *ApiClientRepo) GetByKey(ctx context.Context, key string) (*entities.ApiClient, error) {
	var client entities.ApiClient

	err := r.db.QueryRowxContext(ctx, constants.GetApiClientByKey, key).StructScan(&client)

	if err != nil {
		return nil, err
	}

	return &client, nil
}
