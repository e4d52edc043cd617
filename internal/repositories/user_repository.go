package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/apifeatures"
	"github.com/anonto42/chirp/backend/pkg/cache"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetMiniUsers(ctx context.Context, ids []uint) (map[uint]models.MiniUser, error)
	QueryUsers(ctx context.Context, features *apifeatures.APIFeatures) ([]models.User, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error)
	SetFirebaseUID(ctx context.Context, id uint, firebaseUID string) error
	DeactivateUser(ctx context.Context, id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewPostgresUserRepository creates a new PostgresUserRepository. c may be nil.
func NewPostgresUserRepository(db *gorm.DB, c *cache.Cache) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, cache: c}
}

func (r *PostgresUserRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("active = ?", true)
}

func miniUserKey(id uint) string { return fmt.Sprintf("miniuser:%d", id) }
func userTag(id uint) string     { return fmt.Sprintf("user:%d", id) }

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves an active user by ID
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).First(&user, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// GetMiniUsers loads author shapes by id, serving what it can from the cache.
// Ids with no active user are absent from the result.
func (r *PostgresUserRepository) GetMiniUsers(ctx context.Context, ids []uint) (map[uint]models.MiniUser, error) {
	ids = lo.Uniq(ids)
	result := make(map[uint]models.MiniUser, len(ids))

	var missing []uint
	for _, id := range ids {
		var mini models.MiniUser
		if r.cache.Get(ctx, miniUserKey(id), &mini) {
			result[id] = mini
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}

	var rows []models.MiniUser
	err := r.active(ctx).Model(&models.User{}).
		Select("id", "username", "fullname", "img_url").
		Where("id IN ?", missing).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, mini := range rows {
		result[mini.ID] = mini
		r.cache.Set(ctx, miniUserKey(mini.ID), mini, userTag(mini.ID))
	}
	return result, nil
}

// QueryUsers lists active users with the request's filter, sort, fields and page.
func (r *PostgresUserRepository) QueryUsers(ctx context.Context, features *apifeatures.APIFeatures) ([]models.User, error) {
	var users []models.User
	if err := features.ApplyGorm(r.active(ctx).Model(&models.User{})).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.active(ctx).Where("id IN (?)",
		r.db.Model(&models.UserRelation{}).Select("from_user_id").
			Where("to_user_id = ? AND kind = ?", userID, models.RelationFollow),
	).Find(&users).Error
	return users, err
}

func (r *PostgresUserRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.active(ctx).Where("id IN (?)",
		r.db.Model(&models.UserRelation{}).Select("to_user_id").
			Where("from_user_id = ? AND kind = ?", userID, models.RelationFollow),
	).Find(&users).Error
	return users, err
}

// UpdateUser applies a partial update and returns the stored row.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	res := r.active(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	r.cache.Invalidate(ctx, userTag(id))
	return r.GetUserByID(ctx, id)
}

func (r *PostgresUserRepository) SetFirebaseUID(ctx context.Context, id uint, firebaseUID string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("firebase_uid", firebaseUID).Error
}

// DeactivateUser hides the user from every lookup.
func (r *PostgresUserRepository) DeactivateUser(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.cache.Invalidate(ctx, userTag(id))
	return nil
}
