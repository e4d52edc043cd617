package repositories

import (
	"context"

	"github.com/anonto42/chirp/backend/internal/models"
	"gorm.io/gorm"
)

// UserRelationRepository defines the interface for follow, block and mute data operations
type UserRelationRepository interface {
	AddRelation(ctx context.Context, rel *models.UserRelation) (*models.UserRelationResult, error)
	RemoveRelation(ctx context.Context, fromUserID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error)
}

// PostgresUserRelationRepository implements UserRelationRepository for PostgreSQL
type PostgresUserRelationRepository struct {
	db *gorm.DB
}

// NewPostgresUserRelationRepository creates a new PostgresUserRelationRepository
func NewPostgresUserRelationRepository(db *gorm.DB) *PostgresUserRelationRepository {
	return &PostgresUserRelationRepository{db: db}
}

// AddRelation stores the relation and, for follows, bumps both users' counts
// in the same transaction.
func (r *PostgresUserRelationRepository) AddRelation(ctx context.Context, rel *models.UserRelation) (*models.UserRelationResult, error) {
	var result *models.UserRelationResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActiveUser(tx, rel.ToUserID); err != nil {
			return err
		}
		if err := tx.Create(rel).Error; err != nil {
			return err
		}
		if rel.Kind == models.RelationFollow {
			if err := adjustFollowCounts(tx, rel.FromUserID, rel.ToUserID, 1); err != nil {
				return err
			}
		}
		var err error
		result, err = loadPair(tx, rel.FromUserID, rel.ToUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveRelation deletes the relation, undoing the follow counts when needed.
func (r *PostgresUserRelationRepository) RemoveRelation(ctx context.Context, fromUserID, toUserID uint, kind models.RelationKind) (*models.UserRelationResult, error) {
	var result *models.UserRelationResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireActiveUser(tx, toUserID); err != nil {
			return err
		}
		res := tx.Where("from_user_id = ? AND to_user_id = ? AND kind = ?", fromUserID, toUserID, kind).
			Delete(&models.UserRelation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if kind == models.RelationFollow {
			if err := adjustFollowCounts(tx, fromUserID, toUserID, -1); err != nil {
				return err
			}
		}
		var err error
		result, err = loadPair(tx, fromUserID, toUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func requireActiveUser(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ? AND active = ?", id, true).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func adjustFollowCounts(tx *gorm.DB, fromUserID, toUserID uint, delta int) error {
	if err := tx.Model(&models.User{}).Where("id = ?", fromUserID).
		Update("following_count", gorm.Expr("GREATEST(following_count + ?, 0)", delta)).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", toUserID).
		Update("followers_count", gorm.Expr("GREATEST(followers_count + ?, 0)", delta)).Error
}

func loadPair(tx *gorm.DB, fromUserID, toUserID uint) (*models.UserRelationResult, error) {
	var from, to models.User
	if err := tx.First(&from, fromUserID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if err := tx.First(&to, toUserID).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &models.UserRelationResult{LoggedInUser: &from, TargetUser: &to}, nil
}
