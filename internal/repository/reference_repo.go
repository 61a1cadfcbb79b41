package repository

import (
	"context"
	"errors"
	"fmt"

	"CricBase/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceRepository 球队/场馆/人员参考数据
type ReferenceRepository interface {
	ListTeams(ctx context.Context) ([]model.Team, error)
	ListVenueAliases(ctx context.Context) ([]model.VenueAlias, error)
	// FindTeam 按国家+性别查找，未找到返回 (nil, nil)
	FindTeam(ctx context.Context, sex model.Sex, nation string) (*model.Team, error)
	// FindVenue 先查别名再按名称+城市查场馆，未找到返回 (nil, nil)
	FindVenue(ctx context.Context, name, city string) (*model.Venue, error)
	CreateTeam(ctx context.Context, t *model.Team) error
	// CreateVenue 场馆与别名一并写入
	CreateVenue(ctx context.Context, v *model.Venue, alias *model.VenueAlias) error
	GetTeams(ctx context.Context, ids []string) ([]model.Team, error)
	GetPeople(ctx context.Context, ids []string) ([]model.Person, error)
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListTeams(ctx context.Context) ([]model.Team, error) {
	var list []model.Team
	if err := r.db.WithContext(ctx).Order("team_id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询球队失败: %w", err)
	}
	return list, nil
}

func (r *referenceRepository) ListVenueAliases(ctx context.Context) ([]model.VenueAlias, error) {
	var list []model.VenueAlias
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询场馆别名失败: %w", err)
	}
	return list, nil
}

func (r *referenceRepository) FindTeam(ctx context.Context, sex model.Sex, nation string) (*model.Team, error) {
	var t model.Team
	err := r.db.WithContext(ctx).Where("sex = ? AND nation = ?", sex, nation).Order("team_id").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *referenceRepository) FindVenue(ctx context.Context, name, city string) (*model.Venue, error) {
	var alias model.VenueAlias
	err := r.db.WithContext(ctx).Where("alias_name = ? AND alias_city = ?", name, city).First(&alias).Error
	switch {
	case err == nil:
		var v model.Venue
		if err := r.db.WithContext(ctx).Where("venue_id = ?", alias.VenueID).First(&v).Error; err != nil {
			return nil, err
		}
		return &v, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	var v model.Venue
	err = r.db.WithContext(ctx).Where("venue_name = ? AND city = ?", name, city).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *referenceRepository) CreateTeam(ctx context.Context, t *model.Team) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("创建球队失败: %w, team_id: %s", err, t.TeamID)
	}
	return nil
}

func (r *referenceRepository) CreateVenue(ctx context.Context, v *model.Venue, alias *model.VenueAlias) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := tx.Create(v).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("创建场馆失败: %w, venue: %s", err, v.VenueName)
	}
	if alias != nil {
		alias.VenueID = v.VenueID
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "alias_name"}, {Name: "alias_city"}, {Name: "alias_nation"}},
			DoUpdates: clause.AssignmentColumns([]string{"venue_id", "updated_at"}),
		}).Create(alias).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("写入场馆别名失败: %w, alias: %s", err, alias.AliasName)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func (r *referenceRepository) GetTeams(ctx context.Context, ids []string) ([]model.Team, error) {
	var list []model.Team
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("team_id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *referenceRepository) GetPeople(ctx context.Context, ids []string) ([]model.Person, error) {
	var list []model.Person
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("identifier IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
