package repository

import (
	"context"

	"orbit-hr-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByUsernameFold matches the username case-insensitively.
	FindByUsernameFold(ctx context.Context, username string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
	ListTeamMembers(ctx context.Context, teamLeadID string) ([]model.User, error)
	AddTeamMember(ctx context.Context, teamLeadID, memberID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsernameFold(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) ListTeamMembers(ctx context.Context, teamLeadID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.member_id = users.id").
		Where("team_members.team_lead_id = ?", teamLeadID).
		Order("users.fullname").
		Find(&users).Error
	return users, err
}

func (r *userRepository) AddTeamMember(ctx context.Context, teamLeadID, memberID string) error {
	link := model.TeamMember{TeamLeadID: teamLeadID, MemberID: memberID}
	return r.db.WithContext(ctx).
		Where(model.TeamMember{TeamLeadID: teamLeadID, MemberID: memberID}).
		FirstOrCreate(&link).Error
}
