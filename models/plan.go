package models

import "time"

// Plan is a diet plan. A template plan has no owner and is never
// mutated by user actions; clones are full deep copies owned by a user.
type Plan struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	OwnerID     *string   `json:"owner_id" db:"owner_id"`
	IsTemplate  bool      `json:"is_template" db:"is_template"`
	Days        []Day     `json:"days,omitempty"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Day belongs to exactly one Plan.
type Day struct {
	ID            string `json:"id" db:"id"`
	PlanID        string `json:"plan_id" db:"plan_id"`
	DayOfWeek     string `json:"day_of_week" db:"day_of_week"`
	TotalCalories *int   `json:"total_calories" db:"total_calories"`
	Meals         []Meal `json:"meals,omitempty"`
}

// Meal belongs to exactly one Day.
type Meal struct {
	ID       string     `json:"id" db:"id"`
	DayID    string     `json:"day_id" db:"day_id"`
	MealType MealType   `json:"meal_type" db:"meal_type"`
	Foods    []FoodItem `json:"foods,omitempty"`
}

// FoodItem belongs to exactly one Meal. Week defaults to 1; week-2 rows
// exist only after the two-week migration has run for the plan.
type FoodItem struct {
	ID            string  `json:"id" db:"id"`
	MealID        string  `json:"meal_id" db:"meal_id"`
	FoodName      string  `json:"food_name" db:"food_name"`
	Calories      float64 `json:"calories" db:"calories"`
	Carbohydrates float64 `json:"carbohydrates" db:"carbohydrates"`
	Sugars        float64 `json:"sugars" db:"sugars"`
	Protein       float64 `json:"protein" db:"protein"`
	Fat           float64 `json:"fat" db:"fat"`
	Quantity      float64 `json:"quantity" db:"quantity"`
	Unit          string  `json:"unit" db:"unit"`
	Completed     bool    `json:"completed" db:"completed"`
	Week          int     `json:"week" db:"week"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnack     MealType = "snack"
	MealDinner    MealType = "dinner"
)

// Valid reports whether t is one of the four known meal types.
func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealSnack, MealDinner:
		return true
	}
	return false
}

// DayNames lists weekday names in plan order, capitalized the way the
// week-day key encodes them.
var DayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ValidDayName reports whether name is a capitalized weekday name.
func ValidDayName(name string) bool {
	for _, d := range DayNames {
		if d == name {
			return true
		}
	}
	return false
}
