package repositories

import (
	"fmt"

	"nutriplan/models"
	"nutriplan/pkg/database"
	"nutriplan/pkg/logger"
)

// MigrationRepositoryInterface covers the one-shot two-week migration.
// Schema inspection and alteration live here; this is the only place
// that goes beyond the select/insert/update primitives the rest of the
// code sticks to.
type MigrationRepositoryInterface interface {
	WeekColumnExists() (bool, error)
	AddWeekColumn() error
	GetNonTemplatePlanIDs() ([]string, error)
	GetPlanSlots(planID string) ([]MealSlot, error)
	HasWeekTwoRows(mealID string) (bool, error)
	GetWeekOneFoodItems(mealID string) ([]*models.FoodItem, error)
}

type MigrationRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewMigrationRepository(logger *logger.Logger, db *database.DB) *MigrationRepository {
	return &MigrationRepository{
		logger: logger.WithComponent("migration_repository"),
		db:     db,
	}
}

// WeekColumnExists checks the information schema for food_items.week
func (r *MigrationRepository) WeekColumnExists() (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.columns
            WHERE table_name = 'food_items' AND column_name = 'week'
        )
    `

	var exists bool
	if err := r.db.QueryRow(query).Scan(&exists); err != nil {
		r.logger.Error("Failed to inspect food_items schema", "error", err)
		return false, fmt.Errorf("failed to inspect food_items schema: %v", err)
	}
	return exists, nil
}

// AddWeekColumn adds the week column with a default of 1, so every
// pre-migration row lands in week 1.
func (r *MigrationRepository) AddWeekColumn() error {
	r.logger.Info("Adding week column to food_items")

	_, err := r.db.Exec(`ALTER TABLE food_items ADD COLUMN week INTEGER NOT NULL DEFAULT 1`)
	if err != nil {
		r.logger.Error("Failed to add week column", "error", err)
		return fmt.Errorf("failed to add week column: %v", err)
	}
	return nil
}

// GetNonTemplatePlanIDs lists the IDs of user-owned plans. Templates
// are excluded; they are never migrated in place.
func (r *MigrationRepository) GetNonTemplatePlanIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM diet_plans WHERE is_template = false ORDER BY created_at`)
	if err != nil {
		r.logger.Error("Failed to query non-template plans", "error", err)
		return nil, fmt.Errorf("failed to query non-template plans: %v", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("Failed to scan plan id", "error", err)
			return nil, fmt.Errorf("failed to scan plan id: %v", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating plan ids", "error", err)
		return nil, fmt.Errorf("error iterating plan ids: %v", err)
	}

	return ids, nil
}

// GetPlanSlots lists the distinct (day, meal_type) groups of a plan
// along with the meal row each group hangs off.
func (r *MigrationRepository) GetPlanSlots(planID string) ([]MealSlot, error) {
	query := `
        SELECT d.plan_id, m.id, d.day_of_week, m.meal_type
        FROM meals m
        JOIN plan_days d ON m.day_id = d.id
        WHERE d.plan_id = $1
        ORDER BY d.day_of_week, m.meal_type
    `

	rows, err := r.db.Query(query, planID)
	if err != nil {
		r.logger.Error("Failed to query plan slots", "error", err, "plan_id", planID)
		return nil, fmt.Errorf("failed to query plan slots: %v", err)
	}
	defer rows.Close()

	slots := []MealSlot{}
	for rows.Next() {
		slot := MealSlot{}
		if err := rows.Scan(&slot.PlanID, &slot.MealID, &slot.DayOfWeek, &slot.MealType); err != nil {
			r.logger.Error("Failed to scan plan slot", "error", err, "plan_id", planID)
			return nil, fmt.Errorf("failed to scan plan slot: %v", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating plan slots", "error", err, "plan_id", planID)
		return nil, fmt.Errorf("error iterating plan slots: %v", err)
	}

	return slots, nil
}

// HasWeekTwoRows reports whether a meal already has week-2 food rows
func (r *MigrationRepository) HasWeekTwoRows(mealID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM food_items WHERE meal_id = $1 AND week = 2)`, mealID).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check week-2 rows", "error", err, "meal_id", mealID)
		return false, fmt.Errorf("failed to check week-2 rows: %v", err)
	}
	return exists, nil
}

// GetWeekOneFoodItems retrieves the week-1 food rows of a meal
func (r *MigrationRepository) GetWeekOneFoodItems(mealID string) ([]*models.FoodItem, error) {
	query := `
        SELECT id, meal_id, food_name, calories, carbohydrates, sugars, protein, fat,
               quantity, unit, completed, week
        FROM food_items
        WHERE meal_id = $1 AND week = 1
        ORDER BY food_name
    `

	rows, err := r.db.Query(query, mealID)
	if err != nil {
		r.logger.Error("Failed to query week-1 food items", "error", err, "meal_id", mealID)
		return nil, fmt.Errorf("failed to query week-1 food items: %v", err)
	}
	defer rows.Close()

	items := []*models.FoodItem{}
	for rows.Next() {
		item := &models.FoodItem{}
		err := rows.Scan(&item.ID, &item.MealID, &item.FoodName, &item.Calories,
			&item.Carbohydrates, &item.Sugars, &item.Protein, &item.Fat,
			&item.Quantity, &item.Unit, &item.Completed, &item.Week)
		if err != nil {
			r.logger.Error("Failed to scan week-1 food item", "error", err, "meal_id", mealID)
			return nil, fmt.Errorf("failed to scan week-1 food item: %v", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating week-1 food items", "error", err, "meal_id", mealID)
		return nil, fmt.Errorf("error iterating week-1 food items: %v", err)
	}

	return items, nil
}
