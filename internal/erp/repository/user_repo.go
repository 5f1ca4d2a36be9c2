package repository

import (
	"context"
	"strings"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, entity.CollectionUsers)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		return nil, translate(err, entity.CollectionUsers)
	}
	return &u, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&n).Error
	return n, translate(err, entity.CollectionUsers)
}

func (r *UserRepository) List(ctx context.Context, params ListParams) ([]entity.User, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.User{}).
		Scopes(keywordScope(params.Keyword, "email", "full_name"))
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionUsers)
	}
	var users []entity.User
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&users).Error
	return users, total, translate(err, entity.CollectionUsers)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = strings.ToLower(u.Email)
	return translate(r.db.WithContext(ctx).Create(u).Error, entity.CollectionUsers)
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error, entity.CollectionUsers)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionUsers)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
