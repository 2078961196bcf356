package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordladder/internal/ladder"
	"github.com/vytor/wordladder/internal/models"
	"github.com/vytor/wordladder/internal/repository"
	"github.com/vytor/wordladder/internal/services"
	"github.com/vytor/wordladder/internal/testutil/mocks"
)

func userSchedule() *models.Schedule {
	return &models.Schedule{
		ID:     4,
		UserID: userID,
		Name:   "Mine",
		Levels: []models.ScheduleLevel{
			{Level: 1, IntervalMinutes: 90},
			{Level: 2, IntervalMinutes: 2880},
		},
	}
}

func TestScheduleList_AddsDisplayUnits(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockScheduleRepository)
	svc := services.NewScheduleService(repo)

	repo.On("List", ctx, userID).Return([]models.Schedule{*userSchedule()}, nil)

	views, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, []services.LevelDisplay{
		{Level: 1, Amount: 90, Unit: ladder.UnitMinute},
		{Level: 2, Amount: 2, Unit: ladder.UnitDay},
	}, views[0].Display)
}

func TestScheduleCreate_ConvertsUnits(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockScheduleRepository)
	svc := services.NewScheduleService(repo)

	want := models.Schedule{
		UserID: userID,
		Name:   "Mine",
		Levels: []models.ScheduleLevel{
			{Level: 1, IntervalMinutes: 90},
			{Level: 2, IntervalMinutes: 2880},
		},
	}
	repo.On("Create", ctx, want).Return(int64(4), nil)
	repo.On("Get", ctx, int64(4)).Return(userSchedule(), nil)

	view, err := svc.Create(ctx, userID, services.ScheduleInput{
		Name: " Mine ",
		Levels: []services.LevelInput{
			{Level: 1, Amount: 90, Unit: ladder.UnitMinute},
			{Level: 2, Amount: 2, Unit: ladder.UnitDay},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), view.ID)
	repo.AssertExpectations(t)
}

func TestScheduleCreate_RejectsInvalidLadders(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		levels []services.LevelInput
	}{
		{name: "no levels"},
		{name: "unknown unit", levels: []services.LevelInput{{Level: 0, Amount: 1, Unit: "week"}}},
		{name: "zero amount", levels: []services.LevelInput{{Level: 0, Amount: 0, Unit: ladder.UnitDay}}},
		{name: "gap", levels: []services.LevelInput{
			{Level: 0, Amount: 1, Unit: ladder.UnitDay},
			{Level: 2, Amount: 2, Unit: ladder.UnitDay},
		}},
		{name: "starts at two", levels: []services.LevelInput{{Level: 2, Amount: 1, Unit: ladder.UnitDay}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockScheduleRepository)
			svc := services.NewScheduleService(repo)

			_, err := svc.Create(ctx, userID, services.ScheduleInput{Name: "x", Levels: tt.levels})
			assertStatus(t, err, http.StatusBadRequest)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestScheduleUpdate_PassesNewBounds(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockScheduleRepository)
	svc := services.NewScheduleService(repo)

	repo.On("Get", ctx, int64(4)).Return(userSchedule(), nil)
	repo.On("Update", ctx, mock.MatchedBy(func(s models.Schedule) bool {
		return s.ID == 4 && len(s.Levels) == 1
	}), repository.LevelBounds{Floor: 1, Ceiling: 1}).Return(nil)

	_, err := svc.Update(ctx, userID, 4, services.ScheduleInput{
		Name:   "Mine",
		Levels: []services.LevelInput{{Level: 1, Amount: 1, Unit: ladder.UnitHour}},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestScheduleUpdate_SystemScheduleIsReadOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockScheduleRepository)
	svc := services.NewScheduleService(repo)

	repo.On("Get", ctx, int64(1)).Return(standardSchedule(), nil)

	_, err := svc.Update(ctx, userID, 1, services.ScheduleInput{Name: "x"})
	assertStatus(t, err, http.StatusBadRequest)
	assertStatus(t, svc.Delete(ctx, userID, 1, 0), http.StatusBadRequest)
}

func TestScheduleDelete_RequiresReplacementWhenInUse(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockScheduleRepository)
	svc := services.NewScheduleService(repo)

	repo.On("Get", ctx, int64(4)).Return(userSchedule(), nil)
	repo.On("Delete", ctx, int64(4), int64(0), repository.LevelBounds{}).Return(repository.ErrOrphanedSchedule)

	assertStatus(t, svc.Delete(ctx, userID, 4, 0), http.StatusConflict)
}

func TestScheduleDelete_WithReplacement(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockScheduleRepository)
	svc := services.NewScheduleService(repo)

	repo.On("Get", ctx, int64(4)).Return(userSchedule(), nil)
	repo.On("Get", ctx, int64(1)).Return(standardSchedule(), nil)
	repo.On("Delete", ctx, int64(4), int64(1), repository.LevelBounds{Floor: 0, Ceiling: 2}).Return(nil)

	require.NoError(t, svc.Delete(ctx, userID, 4, 1))
	repo.AssertExpectations(t)

	assertStatus(t, svc.Delete(ctx, userID, 4, 4), http.StatusBadRequest)
}

func TestScheduleDelete_OtherUsersSchedule(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockScheduleRepository)
	svc := services.NewScheduleService(repo)

	repo.On("Get", ctx, int64(4)).Return(userSchedule(), nil)

	assertStatus(t, svc.Delete(ctx, userID+1, 4, 0), http.StatusNotFound)
}
