package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	adjustmentdomain "github.com/opencanteen/mensa/internal/adjustment/domain"
	budgetdomain "github.com/opencanteen/mensa/internal/budget/domain"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	ingredientdomain "github.com/opencanteen/mensa/internal/ingredient/domain"
	leavedomain "github.com/opencanteen/mensa/internal/leave/domain"
	mealdomain "github.com/opencanteen/mensa/internal/meal/domain"
	mealtypedomain "github.com/opencanteen/mensa/internal/mealtype/domain"
	orderdomain "github.com/opencanteen/mensa/internal/order/domain"
	organizationdomain "github.com/opencanteen/mensa/internal/organization/domain"
	payedomain "github.com/opencanteen/mensa/internal/paye/domain"
	scheduledomain "github.com/opencanteen/mensa/internal/schedule/domain"
	"gorm.io/gorm"
)

//go:embed sql
var embeddedMigrations embed.FS

const migrationsDir = "sql"

// RunMigrations applies the embedded SQL migrations against postgres.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	return nil
}

// AutoMigrate builds the schema from the models for the non-postgres dialects
// used in development and tests.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	return db.AutoMigrate(
		&organizationdomain.Organization{},
		&employeedomain.Employee{},
		&mealtypedomain.MealType{},
		&ingredientdomain.Ingredient{},
		&mealdomain.Meal{},
		&mealdomain.MealIngredient{},
		&orderdomain.Order{},
		&scheduledomain.ScheduledMeal{},
		&scheduledomain.ScheduledMealItem{},
		&budgetdomain.Budget{},
		&adjustmentdomain.SalaryAdjustment{},
		&adjustmentdomain.IndividualSalaryAdjustment{},
		&payedomain.PayeTaxSlab{},
		&leavedomain.LeaveApplication{},
	)
}
