package settings

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository handles the settings key/value table.
type Repository interface {
	List(ctx context.Context) ([]models.Setting, error)
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
	UpsertValue(ctx context.Context, key, value string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]models.Setting, error) {
	var list []models.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *repository) UpsertValue(ctx context.Context, key, value string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Setting{}).
		Where("key = ?", key).
		Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(&models.Setting{Key: key, Value: &value}).Error
	}
	return nil
}

// ServiceParams groups dependencies for the settings service.
type ServiceParams struct {
	Repo Repository
}

// Service reads and edits the seeded key/value settings.
type Service struct {
	repo Repository
}

// NewService builds a settings service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, stdErrors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

func (s *Service) List(ctx context.Context) ([]models.Setting, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing settings")
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, key string) (*models.Setting, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding setting")
	}
	if setting == nil {
		return nil, errors.New(errors.CodeNotFound, "setting not found")
	}
	return setting, nil
}

func (s *Service) Set(ctx context.Context, key, value string) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New(errors.CodeValidation, "setting key is required")
	}
	if err := s.repo.UpsertValue(ctx, key, value); err != nil {
		return nil, db.WrapPersistence(err, "saving setting")
	}
	return s.Get(ctx, key)
}
