package service

import (
	"fmt"

	"nutriplan/internal/repositories"
	"nutriplan/models"
	"nutriplan/pkg/logger"
)

// CalorieReport is the per-plan calorie breakdown.
type CalorieReport struct {
	PlanID            string        `json:"plan_id"`
	PlanName          string        `json:"plan_name"`
	TotalCalories     float64       `json:"total_calories"`
	CompletedCalories float64       `json:"completed_calories"`
	Days              []DayCalories `json:"days"`
}

// DayCalories aggregates one day of a plan with its meal buckets.
type DayCalories struct {
	Day               string                    `json:"day"`
	TotalCalories     float64                   `json:"total_calories"`
	CompletedCalories float64                   `json:"completed_calories"`
	Meals             []repositories.CalorieRow `json:"meals"`
}

type AnalyticsServiceInterface interface {
	GetPlanCalories(planID string) (*CalorieReport, error)
}

type AnalyticsService struct {
	analyticsRepo repositories.AnalyticsRepositoryInterface
	planRepo      repositories.PlanRepositoryInterface
	logger        *logger.Logger
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepositoryInterface, planRepo repositories.PlanRepositoryInterface, logger *logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		planRepo:      planRepo,
		logger:        logger.WithComponent("analytics_service"),
	}
}

// GetPlanCalories builds the calorie report for one plan, grouping the
// aggregated buckets by day in weekday order.
func (s *AnalyticsService) GetPlanCalories(planID string) (*CalorieReport, error) {
	s.logger.Info("Building calorie report", "plan_id", planID)

	if planID == "" {
		return nil, fmt.Errorf("plan ID cannot be empty")
	}

	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		return nil, err
	}

	rows, err := s.analyticsRepo.GetPlanCalorieRows(planID)
	if err != nil {
		s.logger.Error("Failed to aggregate plan calories", "error", err, "plan_id", planID)
		return nil, err
	}

	report := &CalorieReport{
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Days:     []DayCalories{},
	}

	byDay := make(map[string]*DayCalories)
	for _, row := range rows {
		day, ok := byDay[row.DayOfWeek]
		if !ok {
			day = &DayCalories{Day: row.DayOfWeek, Meals: []repositories.CalorieRow{}}
			byDay[row.DayOfWeek] = day
		}
		day.Meals = append(day.Meals, row)
		day.TotalCalories += row.TotalCalories
		day.CompletedCalories += row.CompletedCalories
		report.TotalCalories += row.TotalCalories
		report.CompletedCalories += row.CompletedCalories
	}

	// Weekday order, not map order
	for _, name := range models.DayNames {
		if day, ok := byDay[name]; ok {
			report.Days = append(report.Days, *day)
			delete(byDay, name)
		}
	}
	// Any day rows with non-standard names go last
	for _, row := range rows {
		if day, ok := byDay[row.DayOfWeek]; ok {
			report.Days = append(report.Days, *day)
			delete(byDay, row.DayOfWeek)
		}
	}

	return report, nil
}
