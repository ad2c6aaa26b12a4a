package models

import "time"

// MealCompletion tracks whether a user marked a whole meal slot done.
// One row per (user_id, plan_id, day_of_week, meal_type).
type MealCompletion struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	PlanID      string     `json:"diet_plan_id" db:"plan_id"`
	DayOfWeek   string     `json:"day" db:"day_of_week"`
	MealType    MealType   `json:"meal_type" db:"meal_type"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// FoodCompletion tracks a single food item toggle. The completed flag
// is mirrored onto the food_items row on every write.
// One row per (user_id, food_item_id).
type FoodCompletion struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	FoodItemID  string     `json:"food_item_id" db:"food_item_id"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
