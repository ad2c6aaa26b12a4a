package service

import (
	"errors"
	"fmt"

	"nutriplan/internal/repositories"
	"nutriplan/models"
	"nutriplan/pkg/logger"
)

var (
	// ErrTemplateImmutable marks write attempts against template plans.
	ErrTemplateImmutable = errors.New("template plans are immutable")
	// ErrNotPlanOwner marks plan writes by a user who does not own the plan.
	ErrNotPlanOwner = errors.New("plan is owned by another user")
)

type PlanServiceInterface interface {
	GetTemplates() ([]*models.Plan, error)
	GetUserPlans(userID string) ([]*models.Plan, error)
	GetPlanTree(id string) (*models.Plan, error)
	DeletePlan(id, requestingUserID string) error
}

type PlanService struct {
	planRepo repositories.PlanRepositoryInterface
	logger   *logger.Logger
}

func NewPlanService(planRepo repositories.PlanRepositoryInterface, logger *logger.Logger) *PlanService {
	return &PlanService{
		planRepo: planRepo,
		logger:   logger.WithComponent("plan_service"),
	}
}

// GetTemplates lists all template plans
func (s *PlanService) GetTemplates() ([]*models.Plan, error) {
	return s.planRepo.GetTemplates()
}

// GetUserPlans lists the plans owned by a user
func (s *PlanService) GetUserPlans(userID string) ([]*models.Plan, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	return s.planRepo.GetByOwner(userID)
}

// GetPlanTree retrieves a plan with its full nested day/meal/food tree
func (s *PlanService) GetPlanTree(id string) (*models.Plan, error) {
	if id == "" {
		return nil, fmt.Errorf("plan ID cannot be empty")
	}
	return s.planRepo.GetFullTree(id)
}

// DeletePlan removes a user-owned plan. Templates are never deleted
// through user actions, and a user cannot delete another user's plan.
func (s *PlanService) DeletePlan(id, requestingUserID string) error {
	if id == "" {
		return fmt.Errorf("plan ID cannot be empty")
	}

	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return err
	}

	if plan.IsTemplate {
		s.logger.Warn("Refusing to delete template plan", "plan_id", id, "user_id", requestingUserID)
		return fmt.Errorf("plan %s: %w", id, ErrTemplateImmutable)
	}
	if plan.OwnerID == nil || *plan.OwnerID != requestingUserID {
		s.logger.Warn("Refusing cross-user plan delete", "plan_id", id, "user_id", requestingUserID)
		return fmt.Errorf("plan %s: %w", id, ErrNotPlanOwner)
	}

	if err := s.planRepo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("Deleted plan", "plan_id", id, "user_id", requestingUserID)
	return nil
}
