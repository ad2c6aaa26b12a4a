package service

import (
	"github.com/google/uuid"

	"nutriplan/internal/repositories"
	"nutriplan/models"
	"nutriplan/pkg/logger"
)

type MigrationServiceInterface interface {
	MigrateToTwoWeek() ([]models.MigrationResult, error)
}

// MigrationService runs the one-shot two-week migration: ensure the
// week column exists, then duplicate every plan's week-1 food rows as
// week-2 copies. Idempotent per (plan, day, meal_type) group: groups
// that already have week-2 rows are skipped, so re-running is safe.
type MigrationService struct {
	migrationRepo repositories.MigrationRepositoryInterface
	planRepo      repositories.PlanRepositoryInterface
	logger        *logger.Logger
}

func NewMigrationService(migrationRepo repositories.MigrationRepositoryInterface, planRepo repositories.PlanRepositoryInterface, logger *logger.Logger) *MigrationService {
	return &MigrationService{
		migrationRepo: migrationRepo,
		planRepo:      planRepo,
		logger:        logger.WithComponent("migration_service"),
	}
}

// MigrateToTwoWeek migrates every non-template plan to the two-week
// cycle and reports a per-group result. Group failures are recorded and
// do not stop the remaining groups.
func (s *MigrationService) MigrateToTwoWeek() ([]models.MigrationResult, error) {
	s.logger.Info("Starting two-week migration")

	exists, err := s.migrationRepo.WeekColumnExists()
	if err != nil {
		s.logger.Error("Migration failed: schema inspection error", "error", err)
		return nil, err
	}
	if !exists {
		if err := s.migrationRepo.AddWeekColumn(); err != nil {
			s.logger.Error("Migration failed: could not add week column", "error", err)
			return nil, err
		}
	}

	planIDs, err := s.migrationRepo.GetNonTemplatePlanIDs()
	if err != nil {
		s.logger.Error("Migration failed: could not list plans", "error", err)
		return nil, err
	}

	results := []models.MigrationResult{}
	for _, planID := range planIDs {
		slots, err := s.migrationRepo.GetPlanSlots(planID)
		if err != nil {
			s.logger.Error("Failed to list plan slots", "error", err, "plan_id", planID)
			results = append(results, models.MigrationResult{
				PlanID: planID,
				Status: models.MigrationError,
				Error:  err.Error(),
			})
			continue
		}

		for _, slot := range slots {
			results = append(results, s.migrateSlot(slot))
		}
	}

	s.logger.Info("Two-week migration finished", "plans", len(planIDs), "groups", len(results))
	return results, nil
}

// migrateSlot duplicates one meal slot's week-1 rows as week-2 rows.
func (s *MigrationService) migrateSlot(slot repositories.MealSlot) models.MigrationResult {
	result := models.MigrationResult{
		PlanID:   slot.PlanID,
		Day:      slot.DayOfWeek,
		MealType: slot.MealType,
	}

	hasWeekTwo, err := s.migrationRepo.HasWeekTwoRows(slot.MealID)
	if err != nil {
		result.Status = models.MigrationError
		result.Error = err.Error()
		return result
	}
	if hasWeekTwo {
		result.Status = models.MigrationSkipped
		return result
	}

	items, err := s.migrationRepo.GetWeekOneFoodItems(slot.MealID)
	if err != nil {
		result.Status = models.MigrationError
		result.Error = err.Error()
		return result
	}

	for _, item := range items {
		copyItem := *item
		copyItem.ID = uuid.NewString()
		copyItem.Week = 2

		if err := s.planRepo.CreateFoodItem(&copyItem); err != nil {
			s.logger.Error("Failed to duplicate food item for week 2",
				"error", err, "meal_id", slot.MealID, "food_item_id", item.ID)
			result.Status = models.MigrationError
			result.Error = err.Error()
			return result
		}
	}

	result.Status = models.MigrationSuccess
	return result
}
