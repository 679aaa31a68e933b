package database

import (
	"strings"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminSeed describes the initial back office account.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

var rolePermissions = map[string][]string{
	"admin": {
		entity.PermissionManageQuotes,
		entity.PermissionManageCustomers,
		entity.PermissionManageUsers,
	},
	"staff": {
		entity.PermissionManageQuotes,
		entity.PermissionManageCustomers,
	},
}

// SeedDefaultData creates the permissions, the admin and staff roles and,
// when admin credentials are configured, the admin account. It is safe to
// run on every start.
func SeedDefaultData(db *gorm.DB, admin AdminSeed, log *zap.Logger) error {
	permissions := make(map[string]entity.Permission)
	for _, name := range []string{
		entity.PermissionManageQuotes,
		entity.PermissionManageCustomers,
		entity.PermissionManageUsers,
	} {
		p := entity.Permission{Name: name}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
		permissions[name] = p
	}

	roles := make(map[string]entity.Role)
	for name, permNames := range rolePermissions {
		role := entity.Role{Name: name}
		if err := db.Where(entity.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		perms := make([]entity.Permission, 0, len(permNames))
		for _, pn := range permNames {
			perms = append(perms, permissions[pn])
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
		roles[name] = role
	}

	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if admin.Email == "" || admin.Password == "" {
		log.Debug("no admin credentials configured, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	firstName, lastName := admin.Name, ""
	if firstName == "" {
		firstName = "Admin"
	}
	if i := strings.IndexByte(firstName, ' '); i > 0 {
		firstName, lastName = firstName[:i], firstName[i+1:]
	}

	user := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     admin.Email,
		Password:  hashed,
		IsActive:  true,
		Roles:     []entity.Role{roles["admin"]},
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.Info("admin user created", zap.String("email", admin.Email))
	return nil
}
