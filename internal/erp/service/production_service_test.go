package service

import (
	"context"
	"testing"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planRequest() *CreatePlanRequest {
	return &CreatePlanRequest{
		ProductName:     "DMC-200",
		PlannedQuantity: 80,
		StartDate:       "2025-03-01",
		EndDate:         "2025-03-11",
	}
}

func TestCreatePlanSnapshotsMaterialStatus(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	plan, err := ts.Production.CreatePlan(ctx, "u1", planRequest())
	require.NoError(t, err)
	assert.Equal(t, "unavailable", plan.MaterialStatus)
	assert.Equal(t, 10, plan.DaysRequired)
	assert.Equal(t, entity.PlanStatusPlanned, plan.Status)
	assert.Equal(t, "u1", plan.CreatedBy)

	testutil.SeedInventoryItem(t, ts.db, "강판", entity.RawMaterialCategory, 60)
	plan2, err := ts.Production.CreatePlan(ctx, "u1", planRequest())
	require.NoError(t, err)
	assert.Equal(t, "insufficient", plan2.MaterialStatus)

	testutil.SeedInventoryItem(t, ts.db, "알루미늄", entity.RawMaterialCategory, 40)
	testutil.SeedInventoryItem(t, ts.db, "포장재", "부자재", 1000)
	plan3, err := ts.Production.CreatePlan(ctx, "u1", planRequest())
	require.NoError(t, err)
	assert.Equal(t, "sufficient", plan3.MaterialStatus)

	// the snapshot is never recomputed
	updated, err := ts.Production.UpdatePlan(ctx, plan.ID, &UpdatePlanRequest{EndDate: ptr("2025-03-05")})
	require.NoError(t, err)
	assert.Equal(t, "unavailable", updated.MaterialStatus)
	assert.Equal(t, 4, updated.DaysRequired)
}

func TestCreatePlanValidation(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	req := planRequest()
	req.EndDate = "2025-02-01"
	_, err := ts.Production.CreatePlan(ctx, "u1", req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_date", verr.Field)

	req = planRequest()
	req.Status = "paused"
	_, err = ts.Production.CreatePlan(ctx, "u1", req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	req = planRequest()
	req.ModelID = "no-such-model"
	_, err = ts.Production.CreatePlan(ctx, "u1", req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "model_id", verr.Field)
}

func TestPlanStatus(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	plan := testutil.SeedPlan(t, ts.db, 100, date("2025-01-01"), date("2025-01-10"))

	for _, status := range entity.PlanStatuses {
		got, err := ts.Production.UpdatePlanStatus(ctx, plan.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	_, err := ts.Production.UpdatePlanStatus(ctx, plan.ID, "archived")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = ts.Production.UpdatePlanStatus(ctx, "missing", entity.PlanStatusCancelled)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreatePerformanceCompletesPlan(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	plan := testutil.SeedPlan(t, ts.db, 80, date("2025-03-01"), date("2025-03-11"))

	perf, err := ts.Production.CreatePerformance(ctx, "u1", &CreatePerformanceRequest{
		PlanID:         plan.ID,
		ActualQuantity: ptr(100.0),
		StartDate:      "2025-03-01",
		EndDate:        "2025-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 125, perf.AchievementRate)
	assert.Equal(t, "completed", perf.Status)
	assert.Equal(t, 80.0, perf.PlannedQuantity)

	stored, err := ts.repos.Production.FindPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanStatusCompleted, stored.Status)

	// the rate is fixed at creation
	edited, err := ts.Production.UpdatePerformance(ctx, perf.ID, &UpdatePerformanceRequest{ActualQuantity: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, 10.0, edited.ActualQuantity)
	assert.Equal(t, 125, edited.AchievementRate)
}

func TestCreatePerformanceBelowTarget(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	plan := testutil.SeedPlan(t, ts.db, 200, date("2025-03-01"), date("2025-03-11"))

	perf, err := ts.Production.CreatePerformance(ctx, "u1", &CreatePerformanceRequest{
		PlanID:         plan.ID,
		ActualQuantity: ptr(99.0),
		StartDate:      "2025-03-01",
		EndDate:        "2025-03-12",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, perf.AchievementRate)
	assert.Equal(t, "in_production", perf.Status)
}

func TestCreatePerformanceUnknownPlan(t *testing.T) {
	ts := newTestServices(t)
	_, err := ts.Production.CreatePerformance(context.Background(), "u1", &CreatePerformanceRequest{
		PlanID:         "missing",
		ActualQuantity: ptr(1.0),
		StartDate:      "2025-03-01",
		EndDate:        "2025-03-02",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var count int64
	ts.db.Model(&entity.ProductionPerformance{}).Count(&count)
	assert.Zero(t, count)
}

func TestComparison(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	empty, err := ts.Production.Comparison(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.AverageAchievement)
	assert.Equal(t, 0, empty.OnTimeDelivery)
	assert.Empty(t, empty.Monthly)

	p1 := testutil.SeedPlan(t, ts.db, 100, date("2025-09-01"), date("2025-09-20"))
	p2 := testutil.SeedPlan(t, ts.db, 50, date("2025-10-01"), date("2025-10-10"))
	testutil.SeedPlan(t, ts.db, 50, date("2025-10-15"), date("2025-10-30"))

	_, err = ts.Production.CreatePerformance(ctx, "u1", &CreatePerformanceRequest{
		PlanID: p1.ID, ActualQuantity: ptr(90.0), StartDate: "2025-09-01", EndDate: "2025-09-18",
	})
	require.NoError(t, err)
	_, err = ts.Production.CreatePerformance(ctx, "u1", &CreatePerformanceRequest{
		PlanID: p2.ID, ActualQuantity: ptr(20.0), StartDate: "2025-10-01", EndDate: "2025-10-15",
	})
	require.NoError(t, err)

	cmp, err := ts.Production.Comparison(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200.0, cmp.TotalPlanned)
	assert.Equal(t, 110.0, cmp.TotalProduced)
	assert.Equal(t, 65, cmp.AverageAchievement) // (90 + 40) / 2
	assert.Equal(t, "fair", cmp.AverageBar.Band)
	assert.Equal(t, 50, cmp.OnTimeDelivery)
	assert.Equal(t, 2, cmp.CompletedProjects)
	assert.Equal(t, 3, cmp.TotalProjects)
	assert.Equal(t, 67, cmp.CompletionRate)

	require.Len(t, cmp.Monthly, 2)
	assert.Equal(t, "2025-9", cmp.Monthly[0].Month)
	assert.Equal(t, 90, cmp.Monthly[0].Achievement)
	assert.Equal(t, "good", cmp.Monthly[0].Band)
	assert.Equal(t, "2025-10", cmp.Monthly[1].Month)
	assert.Equal(t, 100.0, cmp.Monthly[1].Planned)
	assert.Equal(t, 20.0, cmp.Monthly[1].Produced)
	assert.Equal(t, 20, cmp.Monthly[1].Achievement)
	assert.Equal(t, "red", cmp.Monthly[1].Color)
}

func TestProductModelCRUD(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	m, err := ts.Production.CreateModel(ctx, &ProductModelRequest{ModelName: "DMC-A1", ProductName: "컨트롤러"})
	require.NoError(t, err)

	plan, err := ts.Production.CreatePlan(ctx, "u1", &CreatePlanRequest{
		ProductName: "컨트롤러", ModelID: m.ID, PlannedQuantity: 10,
		StartDate: "2025-01-01", EndDate: "2025-01-02",
	})
	require.NoError(t, err)

	got, err := ts.Production.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Model)
	assert.Equal(t, "DMC-A1", got.Model.ModelName)

	list, total, err := ts.Production.ListModels(ctx, ListQuery{Keyword: "dmc"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, ts.Production.DeleteModel(ctx, m.ID))
	_, err = ts.Production.GetModel(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
