package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"nutriplan/models"
	"nutriplan/pkg/database"
	"nutriplan/pkg/logger"
)

// ErrPlanNotFound marks lookups that matched no plan row.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRepositoryInterface covers plan-level CRUD plus the per-level
// reads and inserts the clone orchestrator walks the tree with. Each
// insert is its own atomic unit; there is deliberately no call that
// spans the whole tree in one transaction.
type PlanRepositoryInterface interface {
	GetTemplateByID(id string) (*models.Plan, error)
	GetByID(id string) (*models.Plan, error)
	GetTemplates() ([]*models.Plan, error)
	GetByOwner(ownerID string) ([]*models.Plan, error)
	GetFullTree(id string) (*models.Plan, error)
	Create(plan *models.Plan) error
	Delete(id string) error

	GetDays(planID string) ([]*models.Day, error)
	CreateDay(day *models.Day) error
	GetMeals(dayID string) ([]*models.Meal, error)
	CreateMeal(meal *models.Meal) error
	GetFoodItems(mealID string) ([]*models.FoodItem, error)
	CreateFoodItem(item *models.FoodItem) error
}

type PlanRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewPlanRepository(logger *logger.Logger, db *database.DB) *PlanRepository {
	return &PlanRepository{
		logger: logger.WithComponent("plan_repository"),
		db:     db,
	}
}

const planColumns = `id, name, description, owner_id, is_template, created_at, updated_at`

func (r *PlanRepository) scanPlan(row interface{ Scan(...interface{}) error }) (*models.Plan, error) {
	plan := &models.Plan{}
	err := row.Scan(&plan.ID, &plan.Name, &plan.Description, &plan.OwnerID,
		&plan.IsTemplate, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// GetTemplateByID retrieves a plan that must be a template
func (r *PlanRepository) GetTemplateByID(id string) (*models.Plan, error) {
	r.logger.Debug("Retrieving template plan", "plan_id", id)

	query := `SELECT ` + planColumns + ` FROM diet_plans WHERE id = $1 AND is_template = true`

	plan, err := r.scanPlan(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Template plan not found", "plan_id", id)
			return nil, fmt.Errorf("template %s: %w", id, ErrPlanNotFound)
		}
		r.logger.Error("Failed to retrieve template plan", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to retrieve template plan: %v", err)
	}

	return plan, nil
}

// GetByID retrieves any plan by ID
func (r *PlanRepository) GetByID(id string) (*models.Plan, error) {
	r.logger.Debug("Retrieving plan", "plan_id", id)

	query := `SELECT ` + planColumns + ` FROM diet_plans WHERE id = $1`

	plan, err := r.scanPlan(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
		}
		r.logger.Error("Failed to retrieve plan", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to retrieve plan: %v", err)
	}

	return plan, nil
}

// GetTemplates retrieves all template plans
func (r *PlanRepository) GetTemplates() ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM diet_plans WHERE is_template = true ORDER BY name`
	return r.queryPlans(query)
}

// GetByOwner retrieves all plans owned by a user
func (r *PlanRepository) GetByOwner(ownerID string) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM diet_plans WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryPlans(query, ownerID)
}

func (r *PlanRepository) queryPlans(query string, args ...interface{}) ([]*models.Plan, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query plans", "error", err)
		return nil, fmt.Errorf("failed to query plans: %v", err)
	}
	defer rows.Close()

	plans := []*models.Plan{}
	for rows.Next() {
		plan, err := r.scanPlan(rows)
		if err != nil {
			r.logger.Error("Failed to scan plan row", "error", err)
			return nil, fmt.Errorf("failed to scan plan: %v", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating plan rows", "error", err)
		return nil, fmt.Errorf("error iterating plan rows: %v", err)
	}

	return plans, nil
}

// GetFullTree retrieves a plan with its days, meals and food items
// nested as JSON aggregates in a single round trip.
func (r *PlanRepository) GetFullTree(id string) (*models.Plan, error) {
	r.logger.Debug("Retrieving full plan tree", "plan_id", id)

	query := `
        SELECT p.id, p.name, p.description, p.owner_id, p.is_template, p.created_at, p.updated_at,
               COALESCE((
                   SELECT json_agg(json_build_object(
                       'id', d.id,
                       'plan_id', d.plan_id,
                       'day_of_week', d.day_of_week,
                       'total_calories', d.total_calories,
                       'meals', COALESCE((
                           SELECT json_agg(json_build_object(
                               'id', m.id,
                               'day_id', m.day_id,
                               'meal_type', m.meal_type,
                               'foods', COALESCE((
                                   SELECT json_agg(json_build_object(
                                       'id', f.id,
                                       'meal_id', f.meal_id,
                                       'food_name', f.food_name,
                                       'calories', f.calories,
                                       'carbohydrates', f.carbohydrates,
                                       'sugars', f.sugars,
                                       'protein', f.protein,
                                       'fat', f.fat,
                                       'quantity', f.quantity,
                                       'unit', f.unit,
                                       'completed', f.completed,
                                       'week', f.week
                                   ) ORDER BY f.food_name)
                                   FROM food_items f WHERE f.meal_id = m.id
                               ), '[]'::json)
                           ) ORDER BY m.meal_type)
                           FROM meals m WHERE m.day_id = d.id
                       ), '[]'::json)
                   ) ORDER BY d.day_of_week)
                   FROM plan_days d WHERE d.plan_id = p.id
               ), '[]'::json) AS days
        FROM diet_plans p
        WHERE p.id = $1
    `

	plan := &models.Plan{}
	var daysJSON string

	err := r.db.QueryRow(query, id).Scan(&plan.ID, &plan.Name, &plan.Description,
		&plan.OwnerID, &plan.IsTemplate, &plan.CreatedAt, &plan.UpdatedAt, &daysJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Plan not found", "plan_id", id)
			return nil, fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
		}
		r.logger.Error("Failed to retrieve plan tree", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to retrieve plan tree: %v", err)
	}

	if err := json.Unmarshal([]byte(daysJSON), &plan.Days); err != nil {
		r.logger.Error("Failed to parse plan days", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to parse days for plan %s: %v", id, err)
	}

	r.logger.Debug("Retrieved plan tree", "plan_id", id, "days", len(plan.Days))
	return plan, nil
}

// Create inserts a new plan row
func (r *PlanRepository) Create(plan *models.Plan) error {
	r.logger.Debug("Creating plan", "plan_id", plan.ID, "name", plan.Name)

	query := `
        INSERT INTO diet_plans (id, name, description, owner_id, is_template, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.db.Exec(query, plan.ID, plan.Name, plan.Description, plan.OwnerID,
		plan.IsTemplate, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create plan", "error", err, "plan_id", plan.ID)
		return fmt.Errorf("failed to create plan: %v", err)
	}

	r.logger.Info("Created plan", "plan_id", plan.ID, "name", plan.Name, "is_template", plan.IsTemplate)
	return nil
}

// Delete removes a plan and its nested rows (cascaded by schema)
func (r *PlanRepository) Delete(id string) error {
	r.logger.Debug("Deleting plan", "plan_id", id)

	result, err := r.db.Exec(`DELETE FROM diet_plans WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete plan", "error", err, "plan_id", id)
		return fmt.Errorf("failed to delete plan: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "plan_id", id)
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to delete non-existent plan", "plan_id", id)
		return fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
	}

	r.logger.Info("Deleted plan", "plan_id", id)
	return nil
}

// GetDays retrieves the day rows of a plan
func (r *PlanRepository) GetDays(planID string) ([]*models.Day, error) {
	query := `SELECT id, plan_id, day_of_week, total_calories FROM plan_days WHERE plan_id = $1 ORDER BY day_of_week`

	rows, err := r.db.Query(query, planID)
	if err != nil {
		r.logger.Error("Failed to query plan days", "error", err, "plan_id", planID)
		return nil, fmt.Errorf("failed to query plan days: %v", err)
	}
	defer rows.Close()

	days := []*models.Day{}
	for rows.Next() {
		day := &models.Day{}
		if err := rows.Scan(&day.ID, &day.PlanID, &day.DayOfWeek, &day.TotalCalories); err != nil {
			r.logger.Error("Failed to scan day row", "error", err, "plan_id", planID)
			return nil, fmt.Errorf("failed to scan day: %v", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating day rows", "error", err, "plan_id", planID)
		return nil, fmt.Errorf("error iterating day rows: %v", err)
	}

	return days, nil
}

// CreateDay inserts a single day row
func (r *PlanRepository) CreateDay(day *models.Day) error {
	query := `INSERT INTO plan_days (id, plan_id, day_of_week, total_calories) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, day.ID, day.PlanID, day.DayOfWeek, day.TotalCalories)
	if err != nil {
		r.logger.Error("Failed to create day", "error", err, "plan_id", day.PlanID, "day_of_week", day.DayOfWeek)
		return fmt.Errorf("failed to create day: %v", err)
	}
	return nil
}

// GetMeals retrieves the meal rows of a day
func (r *PlanRepository) GetMeals(dayID string) ([]*models.Meal, error) {
	query := `SELECT id, day_id, meal_type FROM meals WHERE day_id = $1 ORDER BY meal_type`

	rows, err := r.db.Query(query, dayID)
	if err != nil {
		r.logger.Error("Failed to query meals", "error", err, "day_id", dayID)
		return nil, fmt.Errorf("failed to query meals: %v", err)
	}
	defer rows.Close()

	meals := []*models.Meal{}
	for rows.Next() {
		meal := &models.Meal{}
		if err := rows.Scan(&meal.ID, &meal.DayID, &meal.MealType); err != nil {
			r.logger.Error("Failed to scan meal row", "error", err, "day_id", dayID)
			return nil, fmt.Errorf("failed to scan meal: %v", err)
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating meal rows", "error", err, "day_id", dayID)
		return nil, fmt.Errorf("error iterating meal rows: %v", err)
	}

	return meals, nil
}

// CreateMeal inserts a single meal row
func (r *PlanRepository) CreateMeal(meal *models.Meal) error {
	query := `INSERT INTO meals (id, day_id, meal_type) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(query, meal.ID, meal.DayID, meal.MealType)
	if err != nil {
		r.logger.Error("Failed to create meal", "error", err, "day_id", meal.DayID, "meal_type", meal.MealType)
		return fmt.Errorf("failed to create meal: %v", err)
	}
	return nil
}

// GetFoodItems retrieves the food item rows of a meal
func (r *PlanRepository) GetFoodItems(mealID string) ([]*models.FoodItem, error) {
	query := `
        SELECT id, meal_id, food_name, calories, carbohydrates, sugars, protein, fat,
               quantity, unit, completed, week
        FROM food_items
        WHERE meal_id = $1
        ORDER BY food_name
    `

	rows, err := r.db.Query(query, mealID)
	if err != nil {
		r.logger.Error("Failed to query food items", "error", err, "meal_id", mealID)
		return nil, fmt.Errorf("failed to query food items: %v", err)
	}
	defer rows.Close()

	items := []*models.FoodItem{}
	for rows.Next() {
		item := &models.FoodItem{}
		err := rows.Scan(&item.ID, &item.MealID, &item.FoodName, &item.Calories,
			&item.Carbohydrates, &item.Sugars, &item.Protein, &item.Fat,
			&item.Quantity, &item.Unit, &item.Completed, &item.Week)
		if err != nil {
			r.logger.Error("Failed to scan food item row", "error", err, "meal_id", mealID)
			return nil, fmt.Errorf("failed to scan food item: %v", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating food item rows", "error", err, "meal_id", mealID)
		return nil, fmt.Errorf("error iterating food item rows: %v", err)
	}

	return items, nil
}

// CreateFoodItem inserts a single food item row
func (r *PlanRepository) CreateFoodItem(item *models.FoodItem) error {
	query := `
        INSERT INTO food_items (id, meal_id, food_name, calories, carbohydrates, sugars,
                                protein, fat, quantity, unit, completed, week)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `

	_, err := r.db.Exec(query, item.ID, item.MealID, item.FoodName, item.Calories,
		item.Carbohydrates, item.Sugars, item.Protein, item.Fat,
		item.Quantity, item.Unit, item.Completed, item.Week)
	if err != nil {
		r.logger.Error("Failed to create food item", "error", err, "meal_id", item.MealID, "food_name", item.FoodName)
		return fmt.Errorf("failed to create food item: %v", err)
	}
	return nil
}
