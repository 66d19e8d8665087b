package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rohits-web03/referly/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateUser is returned when a unique column (email or userId) already exists.
var ErrDuplicateUser = errors.New("user already exists")

func (s *Store) findUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

// FindUserByEmail returns nil, nil when no user has the email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

// FindUserByUserID returns nil, nil when no user has the public id.
func (s *Store) FindUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	return s.findUser(ctx, "user_id = ?", userID)
}

func (s *Store) FindAdmin(ctx context.Context) (*models.User, error) {
	return s.findUser(ctx, "is_admin = ?", true)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return errors.Wrap(err, "create user")
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&users).Error
	return users, errors.Wrap(err, "list users")
}

// ListReferrals returns the users whose referredBy is userID, newest first.
func (s *Store) ListReferrals(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("referred_by = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&users).Error
	return users, errors.Wrap(err, "list referrals")
}

// ReferralCounts maps each referrer's userId to the number of users it referred.
func (s *Store) ReferralCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ReferredBy string
		Count      int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("referred_by, COUNT(*) AS count").
		Where("referred_by IS NOT NULL").
		Group("referred_by").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count referrals")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ReferredBy] = row.Count
	}
	return counts, nil
}

func (s *Store) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, errors.Wrap(err, "count users")
}
