package repositories

import (
	"context"

	"tasktracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository is the Account Store. A user and its tasks form one
// aggregate: Save and Delete maintain the children explicitly.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate("find user by username", err)
	}
	return &user, nil
}

// FindByID loads the user together with its tasks.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&user, id).Error
	if err != nil {
		return nil, translate("find user by id", err)
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, translate("find users", err)
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, translate("count users", err)
	}
	return count, nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate("check user exists", err)
	}
	return count > 0, nil
}

// Save writes the user row and reconciles its tasks in one transaction:
// tasks of this user that are no longer in user.Tasks are deleted, the
// remaining ones are inserted or updated. Only tasks already owned by
// the user can be updated this way. A nil Tasks slice means the
// collection was never loaded and leaves stored tasks alone.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user.Role == "" {
			user.Role = models.RoleUser
		}

		if user.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
				return translate("create user", err)
			}
		} else if err := tx.Omit(clause.Associations, "created_at").Save(user).Error; err != nil {
			return translate("update user", err)
		}

		if user.Tasks == nil {
			return nil
		}
		if err := removeOrphans(tx, user); err != nil {
			return err
		}

		for i := range user.Tasks {
			user.Tasks[i].UserID = user.ID
			if err := saveTask(tx, &user.Tasks[i], true); err != nil {
				return err
			}
		}
		return nil
	})
}

func removeOrphans(tx *gorm.DB, user *models.User) error {
	keep := make([]uint, 0, len(user.Tasks))
	for _, task := range user.Tasks {
		if !task.IsNew() {
			keep = append(keep, task.ID)
		}
	}

	query := tx.Where("user_id = ?", user.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&models.Task{}).Error; err != nil {
		return translate("remove orphaned tasks", err)
	}
	return nil
}

// Delete removes the user's tasks and then the user.
func (r *UserRepository) Delete(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Task{}).Error; err != nil {
			return translate("delete user tasks", err)
		}
		result := tx.Delete(&models.User{}, user.ID)
		if result.Error != nil {
			return translate("delete user", result.Error)
		}
		if result.RowsAffected == 0 {
			return translate("delete user", gorm.ErrRecordNotFound)
		}
		user.Tasks = nil
		return nil
	})
}
