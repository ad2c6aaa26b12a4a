package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"nutriplan/internal/repositories"
	"nutriplan/models"
	"nutriplan/pkg/logger"
)

type MealCompletionRequest struct {
	UserID     string          `json:"userId"`
	DietPlanID string          `json:"dietPlanId"`
	Day        string          `json:"day"`
	MealType   models.MealType `json:"mealType"`
	Completed  bool            `json:"completed"`
}

type FoodCompletionRequest struct {
	UserID     string `json:"userId"`
	FoodItemID string `json:"foodItemId"`
	Completed  bool   `json:"completed"`
}

type CompletionServiceInterface interface {
	SetMealCompletion(req MealCompletionRequest) error
	SetFoodCompletion(req FoodCompletionRequest) error
}

// CompletionService applies completion toggles and the cascade policy:
// completing a meal completes all of its food items, and a food toggle
// re-checks its siblings to keep the meal record in agreement.
type CompletionService struct {
	completionRepo repositories.CompletionRepositoryInterface
	logger         *logger.Logger
}

func NewCompletionService(completionRepo repositories.CompletionRepositoryInterface, logger *logger.Logger) *CompletionService {
	return &CompletionService{
		completionRepo: completionRepo,
		logger:         logger.WithComponent("completion_service"),
	}
}

func completedAt(completed bool, now time.Time) *time.Time {
	if completed {
		return &now
	}
	return nil
}

// SetMealCompletion upserts the meal completion record and cascades the
// flag onto every food item in the slot.
func (s *CompletionService) SetMealCompletion(req MealCompletionRequest) error {
	s.logger.Info("Setting meal completion",
		"user_id", req.UserID, "plan_id", req.DietPlanID, "day", req.Day,
		"meal_type", req.MealType, "completed", req.Completed)

	if err := s.validateMealRequest(req); err != nil {
		s.logger.Warn("Invalid meal completion request", "error", err)
		return err
	}

	now := time.Now()
	mc := &models.MealCompletion{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		PlanID:      req.DietPlanID,
		DayOfWeek:   req.Day,
		MealType:    req.MealType,
		Completed:   req.Completed,
		CompletedAt: completedAt(req.Completed, now),
		UpdatedAt:   now,
	}

	if err := s.completionRepo.UpsertMealCompletion(mc); err != nil {
		return err
	}

	items, err := s.completionRepo.GetSlotFoodItems(req.DietPlanID, req.Day, req.MealType)
	if err != nil {
		return err
	}

	for _, item := range items {
		fc := &models.FoodCompletion{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			FoodItemID:  item.ID,
			Completed:   req.Completed,
			CompletedAt: completedAt(req.Completed, now),
			UpdatedAt:   now,
		}
		if err := s.completionRepo.UpsertFoodCompletion(fc); err != nil {
			s.logger.Error("Failed to cascade meal completion to food item",
				"error", err, "food_item_id", item.ID)
			return err
		}
	}

	return nil
}

// SetFoodCompletion upserts the food completion record (which mirrors
// the flag onto the food row), then re-checks the siblings and updates
// the meal completion record to match.
func (s *CompletionService) SetFoodCompletion(req FoodCompletionRequest) error {
	s.logger.Info("Setting food completion",
		"user_id", req.UserID, "food_item_id", req.FoodItemID, "completed", req.Completed)

	if req.UserID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if req.FoodItemID == "" {
		return fmt.Errorf("food item ID cannot be empty")
	}

	slot, err := s.completionRepo.GetFoodItemSlot(req.FoodItemID)
	if err != nil {
		return err
	}

	now := time.Now()
	fc := &models.FoodCompletion{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		FoodItemID:  req.FoodItemID,
		Completed:   req.Completed,
		CompletedAt: completedAt(req.Completed, now),
		UpdatedAt:   now,
	}

	if err := s.completionRepo.UpsertFoodCompletion(fc); err != nil {
		return err
	}

	// Re-read the slot after the mirror write so the sibling check sees
	// the item's new flag.
	items, err := s.completionRepo.GetSlotFoodItems(slot.PlanID, slot.DayOfWeek, slot.MealType)
	if err != nil {
		return err
	}

	allCompleted := len(items) > 0
	for _, item := range items {
		if !item.Completed {
			allCompleted = false
			break
		}
	}

	mc := &models.MealCompletion{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		PlanID:      slot.PlanID,
		DayOfWeek:   slot.DayOfWeek,
		MealType:    slot.MealType,
		Completed:   allCompleted,
		CompletedAt: completedAt(allCompleted, now),
		UpdatedAt:   now,
	}

	if err := s.completionRepo.UpsertMealCompletion(mc); err != nil {
		s.logger.Error("Failed to sync meal completion after food toggle",
			"error", err, "food_item_id", req.FoodItemID)
		return err
	}

	return nil
}

func (s *CompletionService) validateMealRequest(req MealCompletionRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if req.DietPlanID == "" {
		return fmt.Errorf("diet plan ID cannot be empty")
	}
	if !models.ValidDayName(req.Day) {
		return fmt.Errorf("invalid day name %q", req.Day)
	}
	if !req.MealType.Valid() {
		return fmt.Errorf("invalid meal type %q", req.MealType)
	}
	return nil
}
