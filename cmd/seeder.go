package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/category"
	categoryPostgres "github.com/RahulB-24/ExpenseOps/internal/category/postgres"
	"github.com/RahulB-24/ExpenseOps/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with a demo tenant",
	Long:  `Seed the database with a demo tenant and one user per role, for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"approvals", "expenses", "categories", "users", "tenants"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		tenantID := seedTenant(db)
		seedUsers(db, tenantID)
		seedCategories(db, tenantID)
	},
}

func seedTenant(db *gorm.DB) uuid.UUID {
	var existingID uuid.UUID
	row := db.Raw("SELECT id FROM tenants WHERE slug = ?", "acme-corp").Row()
	if err := row.Scan(&existingID); err == nil {
		fmt.Println("demo tenant already exists")
		return existingID
	}

	inviteCode, err := auth.GenerateInviteCode()
	if err != nil {
		log.Fatalf("failed to generate invite code: %v", err)
	}

	tenantID := uuid.New()
	if err := db.Exec(
		"INSERT INTO tenants (id, name, slug, invite_code, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
		tenantID, "Acme Corp", "acme-corp", inviteCode,
	).Error; err != nil {
		log.Fatalf("failed to insert demo tenant: %v", err)
	}

	fmt.Println("Seeded demo tenant Acme Corp, invite code:", inviteCode)
	return tenantID
}

func seedUsers(db *gorm.DB, tenantID uuid.UUID) {
	password := "password"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	users := []struct {
		Name       string
		Email      string
		Role       string
		Department string
	}{
		{"Asha Admin", "admin@acme.test", "ADMIN", "Operations"},
		{"Meera Manager", "manager@acme.test", "MANAGER", "Engineering"},
		{"Farid Finance", "finance@acme.test", "FINANCE", "Finance"},
		{"Esha Employee", "employee@acme.test", "EMPLOYEE", "Engineering"},
	}

	for _, u := range users {
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Printf("user %s already exists\n", u.Email)
			continue
		}

		if err := db.Exec(
			"INSERT INTO users (id, tenant_id, name, email, password_hash, role, department, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, true, now(), now())",
			uuid.New(), tenantID, u.Name, u.Email, string(hash), u.Role, u.Department,
		).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", u.Email, err)
		}
		fmt.Printf("Seeded %s user: %s (password: %s)\n", u.Role, u.Email, password)
	}
}

func seedCategories(db *gorm.DB, tenantID uuid.UUID) {
	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM categories WHERE tenant_id = ?", tenantID).Row().Scan(&count); err == nil && count > 0 {
		fmt.Println("categories already seeded")
		return
	}

	svc := category.NewService(categoryPostgres.NewCategoryRepository(db), logger.LoggerWrapper())
	if err := svc.SeedDefaults(tenantID); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}
	fmt.Println("Default categories seeded successfully")
}
