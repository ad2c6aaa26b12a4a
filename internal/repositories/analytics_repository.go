package repositories

import (
	"fmt"

	"nutriplan/models"
	"nutriplan/pkg/database"
	"nutriplan/pkg/logger"
)

// CalorieRow is one aggregated (day, meal_type) bucket of a plan.
type CalorieRow struct {
	DayOfWeek         string          `json:"day_of_week"`
	MealType          models.MealType `json:"meal_type"`
	TotalCalories     float64         `json:"total_calories"`
	CompletedCalories float64         `json:"completed_calories"`
	ItemCount         int             `json:"item_count"`
}

type AnalyticsRepositoryInterface interface {
	GetPlanCalorieRows(planID string) ([]CalorieRow, error)
}

type AnalyticsRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewAnalyticsRepository(logger *logger.Logger, db *database.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		logger: logger.WithComponent("analytics_repository"),
		db:     db,
	}
}

// GetPlanCalorieRows aggregates calories per (day, meal_type) bucket of
// a plan, splitting out the completed subtotal from the denormalized
// food_items flag.
func (r *AnalyticsRepository) GetPlanCalorieRows(planID string) ([]CalorieRow, error) {
	r.logger.Debug("Aggregating plan calories", "plan_id", planID)

	query := `
        SELECT d.day_of_week, m.meal_type,
               COALESCE(SUM(f.calories), 0) AS total_calories,
               COALESCE(SUM(f.calories) FILTER (WHERE f.completed), 0) AS completed_calories,
               COUNT(f.id) AS item_count
        FROM plan_days d
        JOIN meals m ON m.day_id = d.id
        LEFT JOIN food_items f ON f.meal_id = m.id
        WHERE d.plan_id = $1
        GROUP BY d.day_of_week, m.meal_type
        ORDER BY d.day_of_week, m.meal_type
    `

	rows, err := r.db.Query(query, planID)
	if err != nil {
		r.logger.Error("Failed to query plan calories", "error", err, "plan_id", planID)
		return nil, fmt.Errorf("failed to query plan calories: %v", err)
	}
	defer rows.Close()

	result := []CalorieRow{}
	for rows.Next() {
		row := CalorieRow{}
		err := rows.Scan(&row.DayOfWeek, &row.MealType, &row.TotalCalories,
			&row.CompletedCalories, &row.ItemCount)
		if err != nil {
			r.logger.Error("Failed to scan calorie row", "error", err, "plan_id", planID)
			return nil, fmt.Errorf("failed to scan calorie row: %v", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating calorie rows", "error", err, "plan_id", planID)
		return nil, fmt.Errorf("error iterating calorie rows: %v", err)
	}

	r.logger.Debug("Aggregated plan calories", "plan_id", planID, "buckets", len(result))
	return result, nil
}
