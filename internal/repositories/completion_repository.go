package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"nutriplan/models"
	"nutriplan/pkg/database"
	"nutriplan/pkg/logger"
)

// ErrFoodItemNotFound marks lookups that matched no food item row.
var ErrFoodItemNotFound = errors.New("food item not found")

// MealSlot locates one meal within a plan by its composite key.
type MealSlot struct {
	PlanID    string
	MealID    string
	DayOfWeek string
	MealType  models.MealType
}

// CompletionRepositoryInterface persists completion toggles. Upserts
// are atomic (unique key + ON CONFLICT), so two concurrent toggles on
// the same scope cannot produce duplicate rows; the last write wins.
type CompletionRepositoryInterface interface {
	UpsertMealCompletion(mc *models.MealCompletion) error
	UpsertFoodCompletion(fc *models.FoodCompletion) error
	GetMealCompletion(userID, planID, day string, mealType models.MealType) (*models.MealCompletion, error)
	GetFoodCompletion(userID, foodItemID string) (*models.FoodCompletion, error)
	GetFoodItemSlot(foodItemID string) (*MealSlot, error)
	GetSlotFoodItems(planID, day string, mealType models.MealType) ([]*models.FoodItem, error)
}

type CompletionRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewCompletionRepository(logger *logger.Logger, db *database.DB) *CompletionRepository {
	return &CompletionRepository{
		logger: logger.WithComponent("completion_repository"),
		db:     db,
	}
}

// UpsertMealCompletion writes a meal completion record, updating the
// existing row for the (user, plan, day, meal_type) key if present.
func (r *CompletionRepository) UpsertMealCompletion(mc *models.MealCompletion) error {
	r.logger.Debug("Upserting meal completion",
		"user_id", mc.UserID, "plan_id", mc.PlanID, "day", mc.DayOfWeek, "meal_type", mc.MealType)

	query := `
        INSERT INTO meal_completions (id, user_id, plan_id, day_of_week, meal_type, completed, completed_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id, plan_id, day_of_week, meal_type)
        DO UPDATE SET completed = EXCLUDED.completed,
                      completed_at = EXCLUDED.completed_at,
                      updated_at = EXCLUDED.updated_at
    `

	_, err := r.db.Exec(query, mc.ID, mc.UserID, mc.PlanID, mc.DayOfWeek, mc.MealType,
		mc.Completed, mc.CompletedAt, mc.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert meal completion", "error", err,
			"user_id", mc.UserID, "plan_id", mc.PlanID)
		return fmt.Errorf("failed to upsert meal completion: %v", err)
	}

	return nil
}

// UpsertFoodCompletion writes a food completion record and mirrors the
// completed flag onto the food_items row inside one transaction, so the
// completion log and the denormalized flag cannot drift apart.
func (r *CompletionRepository) UpsertFoodCompletion(fc *models.FoodCompletion) error {
	r.logger.Debug("Upserting food completion",
		"user_id", fc.UserID, "food_item_id", fc.FoodItemID, "completed", fc.Completed)

	return r.db.ExecuteInTransaction(func(tx *sql.Tx) error {
		query := `
            INSERT INTO food_completions (id, user_id, food_item_id, completed, completed_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (user_id, food_item_id)
            DO UPDATE SET completed = EXCLUDED.completed,
                          completed_at = EXCLUDED.completed_at,
                          updated_at = EXCLUDED.updated_at
        `

		_, err := tx.Exec(query, fc.ID, fc.UserID, fc.FoodItemID, fc.Completed, fc.CompletedAt, fc.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert food completion: %v", err)
		}

		result, err := tx.Exec(`UPDATE food_items SET completed = $1 WHERE id = $2`, fc.Completed, fc.FoodItemID)
		if err != nil {
			return fmt.Errorf("failed to mirror food completion flag: %v", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %v", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("food item %s: %w", fc.FoodItemID, ErrFoodItemNotFound)
		}

		return nil
	})
}

// GetMealCompletion retrieves one meal completion record, nil if absent
func (r *CompletionRepository) GetMealCompletion(userID, planID, day string, mealType models.MealType) (*models.MealCompletion, error) {
	query := `
        SELECT id, user_id, plan_id, day_of_week, meal_type, completed, completed_at, updated_at
        FROM meal_completions
        WHERE user_id = $1 AND plan_id = $2 AND day_of_week = $3 AND meal_type = $4
    `

	mc := &models.MealCompletion{}
	err := r.db.QueryRow(query, userID, planID, day, mealType).Scan(&mc.ID, &mc.UserID,
		&mc.PlanID, &mc.DayOfWeek, &mc.MealType, &mc.Completed, &mc.CompletedAt, &mc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to retrieve meal completion", "error", err, "user_id", userID, "plan_id", planID)
		return nil, fmt.Errorf("failed to retrieve meal completion: %v", err)
	}

	return mc, nil
}

// GetFoodCompletion retrieves one food completion record, nil if absent
func (r *CompletionRepository) GetFoodCompletion(userID, foodItemID string) (*models.FoodCompletion, error) {
	query := `
        SELECT id, user_id, food_item_id, completed, completed_at, updated_at
        FROM food_completions
        WHERE user_id = $1 AND food_item_id = $2
    `

	fc := &models.FoodCompletion{}
	err := r.db.QueryRow(query, userID, foodItemID).Scan(&fc.ID, &fc.UserID,
		&fc.FoodItemID, &fc.Completed, &fc.CompletedAt, &fc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to retrieve food completion", "error", err, "user_id", userID, "food_item_id", foodItemID)
		return nil, fmt.Errorf("failed to retrieve food completion: %v", err)
	}

	return fc, nil
}

// GetFoodItemSlot resolves the plan/day/meal-type slot a food item
// belongs to, walking food_items -> meals -> plan_days.
func (r *CompletionRepository) GetFoodItemSlot(foodItemID string) (*MealSlot, error) {
	query := `
        SELECT d.plan_id, m.id, d.day_of_week, m.meal_type
        FROM food_items f
        JOIN meals m ON f.meal_id = m.id
        JOIN plan_days d ON m.day_id = d.id
        WHERE f.id = $1
    `

	slot := &MealSlot{}
	err := r.db.QueryRow(query, foodItemID).Scan(&slot.PlanID, &slot.MealID, &slot.DayOfWeek, &slot.MealType)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Food item not found", "food_item_id", foodItemID)
			return nil, fmt.Errorf("food item %s: %w", foodItemID, ErrFoodItemNotFound)
		}
		r.logger.Error("Failed to resolve food item slot", "error", err, "food_item_id", foodItemID)
		return nil, fmt.Errorf("failed to resolve food item slot: %v", err)
	}

	return slot, nil
}

// GetSlotFoodItems retrieves all food items in one meal slot of a plan
func (r *CompletionRepository) GetSlotFoodItems(planID, day string, mealType models.MealType) ([]*models.FoodItem, error) {
	query := `
        SELECT f.id, f.meal_id, f.food_name, f.calories, f.carbohydrates, f.sugars,
               f.protein, f.fat, f.quantity, f.unit, f.completed, f.week
        FROM food_items f
        JOIN meals m ON f.meal_id = m.id
        JOIN plan_days d ON m.day_id = d.id
        WHERE d.plan_id = $1 AND d.day_of_week = $2 AND m.meal_type = $3
        ORDER BY f.food_name
    `

	rows, err := r.db.Query(query, planID, day, mealType)
	if err != nil {
		r.logger.Error("Failed to query slot food items", "error", err, "plan_id", planID, "day", day, "meal_type", mealType)
		return nil, fmt.Errorf("failed to query slot food items: %v", err)
	}
	defer rows.Close()

	items := []*models.FoodItem{}
	for rows.Next() {
		item := &models.FoodItem{}
		err := rows.Scan(&item.ID, &item.MealID, &item.FoodName, &item.Calories,
			&item.Carbohydrates, &item.Sugars, &item.Protein, &item.Fat,
			&item.Quantity, &item.Unit, &item.Completed, &item.Week)
		if err != nil {
			r.logger.Error("Failed to scan slot food item", "error", err)
			return nil, fmt.Errorf("failed to scan slot food item: %v", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating slot food items", "error", err)
		return nil, fmt.Errorf("error iterating slot food items: %v", err)
	}

	return items, nil
}
