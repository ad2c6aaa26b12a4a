package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/internal/repositories"
	"nutriplan/models"
)

type fakeMigrationRepo struct {
	weekColumn     bool
	addColumnCalls int

	planIDs []string
	slots   map[string][]repositories.MealSlot // by plan ID
	weekOne map[string][]*models.FoodItem      // by meal ID
	weekTwo map[string]bool                    // by meal ID

	failSlotsFor map[string]bool // by plan ID
	failAdd      bool
}

func newFakeMigrationRepo() *fakeMigrationRepo {
	return &fakeMigrationRepo{
		slots:        map[string][]repositories.MealSlot{},
		weekOne:      map[string][]*models.FoodItem{},
		weekTwo:      map[string]bool{},
		failSlotsFor: map[string]bool{},
	}
}

func (f *fakeMigrationRepo) WeekColumnExists() (bool, error) { return f.weekColumn, nil }

func (f *fakeMigrationRepo) AddWeekColumn() error {
	if f.failAdd {
		return errors.New("alter table failed")
	}
	f.addColumnCalls++
	f.weekColumn = true
	return nil
}

func (f *fakeMigrationRepo) GetNonTemplatePlanIDs() ([]string, error) { return f.planIDs, nil }

func (f *fakeMigrationRepo) GetPlanSlots(planID string) ([]repositories.MealSlot, error) {
	if f.failSlotsFor[planID] {
		return nil, errors.New("slot listing failed")
	}
	return f.slots[planID], nil
}

func (f *fakeMigrationRepo) HasWeekTwoRows(mealID string) (bool, error) {
	return f.weekTwo[mealID], nil
}

func (f *fakeMigrationRepo) GetWeekOneFoodItems(mealID string) ([]*models.FoodItem, error) {
	return f.weekOne[mealID], nil
}

func (f *fakeMigrationRepo) addSlot(planID, mealID, day string, mealType models.MealType, items ...*models.FoodItem) {
	f.slots[planID] = append(f.slots[planID], repositories.MealSlot{
		PlanID: planID, MealID: mealID, DayOfWeek: day, MealType: mealType,
	})
	for _, item := range items {
		item.MealID = mealID
		item.Week = 1
		f.weekOne[mealID] = append(f.weekOne[mealID], item)
	}
}

func TestMigrateAddsColumnWhenMissing(t *testing.T) {
	repo := newFakeMigrationRepo()
	planRepo := newFakePlanRepo()
	svc := NewMigrationService(repo, planRepo, newTestLogger())

	results, err := svc.MigrateToTwoWeek()
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, repo.addColumnCalls)
	assert.True(t, repo.weekColumn)
}

func TestMigrateSkipsColumnWhenPresent(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.weekColumn = true
	svc := NewMigrationService(repo, newFakePlanRepo(), newTestLogger())

	_, err := svc.MigrateToTwoWeek()
	require.NoError(t, err)
	assert.Zero(t, repo.addColumnCalls)
}

func TestMigrateDuplicatesWeekOneRows(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.weekColumn = true
	repo.planIDs = []string{"plan-1"}
	repo.addSlot("plan-1", "meal-1", "Monday", models.MealBreakfast,
		&models.FoodItem{ID: "f1", FoodName: "Oats", Calories: 150, Quantity: 50, Unit: "g", Completed: true},
		&models.FoodItem{ID: "f2", FoodName: "Milk", Calories: 60, Quantity: 100, Unit: "ml"})

	planRepo := newFakePlanRepo()
	svc := NewMigrationService(repo, planRepo, newTestLogger())

	results, err := svc.MigrateToTwoWeek()
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, models.MigrationSuccess, results[0].Status)
	assert.Equal(t, "plan-1", results[0].PlanID)
	assert.Equal(t, "Monday", results[0].Day)
	assert.Equal(t, models.MealBreakfast, results[0].MealType)

	require.Len(t, planRepo.createdFoods, 2)
	byName := map[string]*models.FoodItem{}
	for _, item := range planRepo.createdFoods {
		assert.Equal(t, 2, item.Week)
		assert.Equal(t, "meal-1", item.MealID)
		assert.NotEqual(t, "f1", item.ID)
		assert.NotEqual(t, "f2", item.ID)
		byName[item.FoodName] = item
	}
	// Copies carry the source rows' nutrition verbatim
	require.Contains(t, byName, "Oats")
	assert.Equal(t, 150.0, byName["Oats"].Calories)
	assert.Equal(t, 50.0, byName["Oats"].Quantity)
	assert.True(t, byName["Oats"].Completed)
	require.Contains(t, byName, "Milk")
	assert.Equal(t, "ml", byName["Milk"].Unit)
}

func TestMigrateIdempotentSkip(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.weekColumn = true
	repo.planIDs = []string{"plan-1"}
	repo.addSlot("plan-1", "meal-1", "Monday", models.MealLunch,
		&models.FoodItem{ID: "f1", FoodName: "Rice", Calories: 200})
	repo.weekTwo["meal-1"] = true

	planRepo := newFakePlanRepo()
	svc := NewMigrationService(repo, planRepo, newTestLogger())

	results, err := svc.MigrateToTwoWeek()
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, models.MigrationSkipped, results[0].Status)
	assert.Empty(t, planRepo.createdFoods)
}

func TestMigratePlanErrorDoesNotStopOthers(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.weekColumn = true
	repo.planIDs = []string{"plan-bad", "plan-good"}
	repo.failSlotsFor["plan-bad"] = true
	repo.addSlot("plan-good", "meal-1", "Wednesday", models.MealDinner,
		&models.FoodItem{ID: "f1", FoodName: "Soup", Calories: 120})

	planRepo := newFakePlanRepo()
	svc := NewMigrationService(repo, planRepo, newTestLogger())

	results, err := svc.MigrateToTwoWeek()
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, models.MigrationError, results[0].Status)
	assert.Equal(t, "plan-bad", results[0].PlanID)
	assert.NotEmpty(t, results[0].Error)
	assert.Equal(t, models.MigrationSuccess, results[1].Status)
	assert.Len(t, planRepo.createdFoods, 1)
}

func TestMigrateInsertFailureRecordedPerGroup(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.weekColumn = true
	repo.planIDs = []string{"plan-1"}
	repo.addSlot("plan-1", "meal-1", "Monday", models.MealBreakfast,
		&models.FoodItem{ID: "f1", FoodName: "Eggs", Calories: 140})
	repo.addSlot("plan-1", "meal-2", "Monday", models.MealLunch,
		&models.FoodItem{ID: "f2", FoodName: "Rice", Calories: 200})

	planRepo := newFakePlanRepo()
	planRepo.failFoodCreate["Eggs"] = true
	svc := NewMigrationService(repo, planRepo, newTestLogger())

	results, err := svc.MigrateToTwoWeek()
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, models.MigrationError, results[0].Status)
	assert.Equal(t, models.MigrationSuccess, results[1].Status)
	require.Len(t, planRepo.createdFoods, 1)
	assert.Equal(t, "Rice", planRepo.createdFoods[0].FoodName)
}

func TestMigrateAddColumnFailureAborts(t *testing.T) {
	repo := newFakeMigrationRepo()
	repo.failAdd = true
	svc := NewMigrationService(repo, newFakePlanRepo(), newTestLogger())

	results, err := svc.MigrateToTwoWeek()
	assert.Error(t, err)
	assert.Nil(t, results)
}
