package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
)

// NewGormStores returns repositories backed by postgres or sqlite.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:      NewGormUserRepository(db),
		Activities: NewGormActivityRepository(db),
		Contacts:   NewGormContactRepository(db),
	}
}

type GormUserRepository struct{ db *gorm.DB }

func NewGormUserRepository(db *gorm.DB) *GormUserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrUserNotFound
	}
	observe(ctx, "user", "find_by_email", err)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrUserNotFound
	}
	observe(ctx, "user", "find_by_id", err)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) UpsertByEmail(ctx context.Context, profile domain.UserProfile) (*domain.User, bool, error) {
	p := profile.Normalized()
	u, created, err := r.upsert(ctx, p)
	if err != nil {
		// A concurrent sign-in may have inserted the row between our read and
		// insert; the unique email index rejects ours, so update instead.
		u, created, err = r.upsert(ctx, p)
	}
	observe(ctx, "user", "upsert", err)
	return u, created, err
}

func (r *GormUserRepository) upsert(ctx context.Context, p domain.UserProfile) (*domain.User, bool, error) {
	var (
		u       domain.User
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", p.Email).First(&u).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ts := now()
			u = domain.User{
				ID:        uuid.NewString(),
				Email:     p.Email,
				Name:      p.Name,
				Image:     p.Image,
				Role:      domain.RoleUser,
				CreatedAt: ts,
				UpdatedAt: ts,
			}
			created = true
			return tx.Create(&u).Error
		case err != nil:
			return err
		}
		u.Name, u.Image, u.UpdatedAt = p.Name, p.Image, now()
		return tx.Model(&domain.User{}).Where("id = ?", u.ID).Updates(map[string]any{
			"name":       u.Name,
			"image":      u.Image,
			"updated_at": u.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &u, created, nil
}

func (r *GormUserRepository) SetRole(ctx context.Context, email, role string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Updates(map[string]any{
		"role":       role,
		"updated_at": now(),
	})
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		err = ErrUserNotFound
	}
	observe(ctx, "user", "set_role", err)
	if err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, email)
}

func (r *GormUserRepository) List(ctx context.Context, req PageRequest) (PageResult[domain.User], error) {
	req = req.Clamp()
	var (
		total int64
		items []domain.User
	)
	base := r.db.WithContext(ctx).Model(&domain.User{})
	err := base.Count(&total).Error
	if err == nil {
		err = base.Order("created_at desc").Offset(req.offset()).Limit(req.PageSize).Find(&items).Error
	}
	observe(ctx, "user", "list", err)
	if err != nil {
		return PageResult[domain.User]{}, err
	}
	return newPageResult(req, items, total), nil
}

type GormActivityRepository struct{ db *gorm.DB }

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	ts := now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = ts
	}
	a.UpdatedAt = ts
	err := r.db.WithContext(ctx).Create(a).Error
	observe(ctx, "activity", "create", err)
	return err
}

func (r *GormActivityRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	items := []domain.Activity{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&items).Error
	observe(ctx, "activity", "list_recent", err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormActivityRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Activity{}).Where("user_id = ?", userID).Count(&n).Error
	observe(ctx, "activity", "count", err)
	return n, err
}

type GormContactRepository struct{ db *gorm.DB }

func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = domain.ContactUnread
	}
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts
	err := r.db.WithContext(ctx).Create(c).Error
	observe(ctx, "contact", "create", err)
	return err
}

func (r *GormContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrContactNotFound
	}
	observe(ctx, "contact", "find_by_id", err)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormContactRepository) List(ctx context.Context, filter ContactFilter) (PageResult[domain.Contact], error) {
	req := filter.Page.Clamp()
	base := r.db.WithContext(ctx).Model(&domain.Contact{})
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	var (
		total int64
		items []domain.Contact
	)
	err := base.Count(&total).Error
	if err == nil {
		err = base.Order("created_at desc").Order("id desc").Offset(req.offset()).Limit(req.PageSize).Find(&items).Error
	}
	observe(ctx, "contact", "list", err)
	if err != nil {
		return PageResult[domain.Contact]{}, err
	}
	return newPageResult(req, items, total), nil
}

func (r *GormContactRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ContactStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": now()})
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		var n int64
		if err = r.db.WithContext(ctx).Model(&domain.Contact{}).Where("id = ?", id).Count(&n).Error; err == nil {
			err = ErrContactStateChanged
			if n == 0 {
				err = ErrContactNotFound
			}
		}
	}
	observe(ctx, "contact", "update_status", err)
	return err
}

func (r *GormContactRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Contact, error) {
	items := []domain.Contact{}
	err := r.db.WithContext(ctx).Where("created_at >= ?", since.UTC()).Order("created_at asc").Find(&items).Error
	observe(ctx, "contact", "list_since", err)
	if err != nil {
		return nil, err
	}
	return items, nil
}
