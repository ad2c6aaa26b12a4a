package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nutriplan/internal/repositories"
	"nutriplan/models"
	"nutriplan/pkg/logger"
)

// Fail-fast clone preconditions. Everything below the day level is
// fail-soft and recorded in the result's error list instead.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrCreatePlanFailed = errors.New("failed to create plan")
	ErrFetchDaysFailed  = errors.New("failed to fetch template days")
)

type CloneServiceInterface interface {
	Clone(templateID, requestingUserID string) (*models.CloneResult, error)
}

// CloneService deep-copies a template plan's day/meal/food tree into a
// new user-owned plan. The copy is best-effort: a fault in one branch
// never rolls back siblings or ancestors already committed, because no
// transaction spans the tree. Diagnostics for failed branches are
// collected and returned with the new plan ID.
type CloneService struct {
	planRepo repositories.PlanRepositoryInterface
	logger   *logger.Logger
}

func NewCloneService(planRepo repositories.PlanRepositoryInterface, logger *logger.Logger) *CloneService {
	return &CloneService{
		planRepo: planRepo,
		logger:   logger.WithComponent("clone_service"),
	}
}

// Clone copies the template identified by templateID into a new plan
// owned by requestingUserID. Zero template days is a valid, empty
// clone. Branch copying is sequential; each insert is its own atomic
// unit against the store.
func (s *CloneService) Clone(templateID, requestingUserID string) (*models.CloneResult, error) {
	s.logger.Info("Cloning template plan", "template_id", templateID, "user_id", requestingUserID)

	if templateID == "" {
		return nil, fmt.Errorf("template ID cannot be empty")
	}
	if requestingUserID == "" {
		return nil, fmt.Errorf("requesting user ID cannot be empty")
	}

	template, err := s.planRepo.GetTemplateByID(templateID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanNotFound) {
			s.logger.Warn("Clone failed: template not found", "template_id", templateID)
			return nil, fmt.Errorf("template %s: %w", templateID, ErrTemplateNotFound)
		}
		s.logger.Error("Clone failed: template lookup error", "error", err, "template_id", templateID)
		return nil, err
	}

	now := time.Now()
	ownerID := requestingUserID
	newPlan := &models.Plan{
		ID:          uuid.NewString(),
		Name:        template.Name,
		Description: template.Description,
		OwnerID:     &ownerID,
		IsTemplate:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Past this point a partial artifact (an empty plan) can exist; the
	// remaining failure modes degrade to partial success instead.
	if err := s.planRepo.Create(newPlan); err != nil {
		s.logger.Error("Clone failed: could not create plan", "error", err, "template_id", templateID)
		return nil, fmt.Errorf("%w: %v", ErrCreatePlanFailed, err)
	}

	templateDays, err := s.planRepo.GetDays(templateID)
	if err != nil {
		s.logger.Error("Clone failed: could not fetch template days", "error", err, "template_id", templateID)
		return nil, fmt.Errorf("%w: %v", ErrFetchDaysFailed, err)
	}

	result := &models.CloneResult{NewPlanID: newPlan.ID}
	for _, templateDay := range templateDays {
		s.cloneDay(newPlan.ID, templateDay, result)
	}

	if result.Partial() {
		s.logger.Warn("Clone completed partially",
			"template_id", templateID, "new_plan_id", newPlan.ID, "branch_errors", len(result.Errors))
	} else {
		s.logger.Info("Clone completed",
			"template_id", templateID, "new_plan_id", newPlan.ID, "days", len(templateDays))
	}

	return result, nil
}

// cloneDay copies one template day and its subtree. A failure here only
// loses this day's branch; the caller moves on to the next day.
func (s *CloneService) cloneDay(newPlanID string, templateDay *models.Day, result *models.CloneResult) {
	newDay := &models.Day{
		ID:            uuid.NewString(),
		PlanID:        newPlanID,
		DayOfWeek:     templateDay.DayOfWeek,
		TotalCalories: templateDay.TotalCalories,
	}

	if err := s.planRepo.CreateDay(newDay); err != nil {
		s.logger.Warn("Skipping day branch: insert failed", "template_day_id", templateDay.ID, "error", err)
		result.Errors = append(result.Errors, models.CloneError{
			Type:          models.CloneErrorDay,
			TemplateDayID: templateDay.ID,
			Error:         err.Error(),
		})
		return
	}

	templateMeals, err := s.planRepo.GetMeals(templateDay.ID)
	if err != nil {
		s.logger.Warn("Skipping day branch: meal fetch failed", "template_day_id", templateDay.ID, "error", err)
		result.Errors = append(result.Errors, models.CloneError{
			Type:          models.CloneErrorMeals,
			TemplateDayID: templateDay.ID,
			Error:         err.Error(),
		})
		return
	}

	for _, templateMeal := range templateMeals {
		s.cloneMeal(newDay.ID, templateMeal, result)
	}
}

// cloneMeal copies one template meal and its food items.
func (s *CloneService) cloneMeal(newDayID string, templateMeal *models.Meal, result *models.CloneResult) {
	newMeal := &models.Meal{
		ID:       uuid.NewString(),
		DayID:    newDayID,
		MealType: templateMeal.MealType,
	}

	if err := s.planRepo.CreateMeal(newMeal); err != nil {
		s.logger.Warn("Skipping meal branch: insert failed", "template_meal_id", templateMeal.ID, "error", err)
		result.Errors = append(result.Errors, models.CloneError{
			Type:           models.CloneErrorMeal,
			TemplateMealID: templateMeal.ID,
			Error:          err.Error(),
		})
		return
	}

	templateFoods, err := s.planRepo.GetFoodItems(templateMeal.ID)
	if err != nil {
		s.logger.Warn("Skipping meal branch: food fetch failed", "template_meal_id", templateMeal.ID, "error", err)
		result.Errors = append(result.Errors, models.CloneError{
			Type:           models.CloneErrorFoods,
			TemplateMealID: templateMeal.ID,
			Error:          err.Error(),
		})
		return
	}

	for _, templateFood := range templateFoods {
		s.cloneFoodItem(newMeal.ID, templateFood, result)
	}
}

// cloneFoodItem copies one food item. A failure loses only this item.
func (s *CloneService) cloneFoodItem(newMealID string, templateFood *models.FoodItem, result *models.CloneResult) {
	quantity := templateFood.Quantity
	if quantity == 0 {
		quantity = 1
	}
	unit := templateFood.Unit
	if unit == "" {
		unit = "g"
	}
	week := templateFood.Week
	if week == 0 {
		week = 1
	}

	newFood := &models.FoodItem{
		ID:            uuid.NewString(),
		MealID:        newMealID,
		FoodName:      templateFood.FoodName,
		Calories:      templateFood.Calories,
		Carbohydrates: templateFood.Carbohydrates,
		Sugars:        templateFood.Sugars,
		Protein:       templateFood.Protein,
		Fat:           templateFood.Fat,
		Quantity:      quantity,
		Unit:          unit,
		Completed:     false,
		Week:          week,
	}

	if err := s.planRepo.CreateFoodItem(newFood); err != nil {
		s.logger.Warn("Skipping food item: insert failed", "template_food_id", templateFood.ID, "error", err)
		result.Errors = append(result.Errors, models.CloneError{
			Type:           models.CloneErrorFood,
			TemplateFoodID: templateFood.ID,
			Error:          err.Error(),
		})
	}
}
