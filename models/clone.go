package models

// CloneErrorType identifies which branch of the template tree failed
// while cloning.
type CloneErrorType string

const (
	CloneErrorDay   CloneErrorType = "day"   // inserting a day row
	CloneErrorMeals CloneErrorType = "meals" // fetching a day's meals
	CloneErrorMeal  CloneErrorType = "meal"  // inserting a meal row
	CloneErrorFoods CloneErrorType = "foods" // fetching a meal's food items
	CloneErrorFood  CloneErrorType = "food"  // inserting a food item row
)

// CloneError is one per-branch diagnostic collected during a clone.
// Exactly one of the template ID fields is set, matching Type.
type CloneError struct {
	Type           CloneErrorType `json:"type"`
	TemplateDayID  string         `json:"templateDayId,omitempty"`
	TemplateMealID string         `json:"templateMealId,omitempty"`
	TemplateFoodID string         `json:"templateFoodId,omitempty"`
	Error          string         `json:"error"`
}

// CloneResult is the outcome of a clone. A non-empty Errors slice means
// partial success: the new plan exists but some branches are missing.
type CloneResult struct {
	NewPlanID string       `json:"dietPlanId"`
	Errors    []CloneError `json:"errors,omitempty"`
}

// Partial reports whether the clone completed with branch failures.
func (r *CloneResult) Partial() bool {
	return len(r.Errors) > 0
}

// MigrationStatus is the per-group outcome of the two-week migration.
type MigrationStatus string

const (
	MigrationSuccess MigrationStatus = "success"
	MigrationSkipped MigrationStatus = "skipped"
	MigrationError   MigrationStatus = "error"
)

// MigrationResult reports the two-week migration outcome for one
// (plan, day, meal_type) group.
type MigrationResult struct {
	PlanID   string          `json:"planId"`
	Day      string          `json:"day"`
	MealType MealType        `json:"mealType"`
	Status   MigrationStatus `json:"status"`
	Error    string          `json:"error,omitempty"`
}
