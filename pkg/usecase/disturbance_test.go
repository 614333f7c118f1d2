package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/utilmon-lab/varsel/pkg/adapter/messaging"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/repository"
	"github.com/utilmon-lab/varsel/pkg/service/opsnotify"
	"github.com/utilmon-lab/varsel/pkg/service/templates"
	"github.com/utilmon-lab/varsel/pkg/usecase"
	"github.com/utilmon-lab/varsel/pkg/utils/ptr"
)

func testTemplates(t *testing.T) *templates.Service {
	t.Helper()
	return gt.R1(templates.New([]message.Config{
		{
			Category:      "ELECTRICITY",
			Active:        true,
			Sender:        message.Sender{EmailAddress: "noreply@grid.example"},
			SubjectNew:    "NEW ${title}",
			BodyNew:       "new",
			SubjectUpdate: "UPDATE ${title}",
			BodyUpdate:    "update",
			SubjectClose:  "CLOSE ${title}",
			BodyClose:     "close",
		},
	})).NoError(t)
}

func newTestUseCases(t *testing.T) (*usecase.UseCases, *repository.Memory, *messaging.Mock) {
	t.Helper()
	repo := repository.NewMemory()
	gateway := messaging.NewMock()
	uc := usecase.New(
		usecase.WithRepository(repo),
		usecase.WithMessagingGateway(gateway),
		usecase.WithTemplates(testTemplates(t)),
		usecase.WithOpsNotifier(opsnotify.NewDiscard()),
	)
	return uc, repo, gateway
}

func seedFeedback(t *testing.T, repo *repository.Memory, partyIDs ...string) {
	t.Helper()
	ctx := context.Background()
	for _, partyID := range partyIDs {
		fb := feedback.New(ctx, "ELECTRICITY", "d-1", partyID)
		gt.NoError(t, repo.PutFeedback(ctx, *fb))
	}
}

func TestCreateOpenDispatchesNew(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	d, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusOpen,
		Title:     "Outage",
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)
	gt.Value(t, d.Status).Equal(types.DisturbanceStatusOpen)

	msgs := gateway.Messages()
	gt.Array(t, msgs).Length(1)
	gt.Value(t, msgs[0].Party.PartyID).Equal("p1")
	gt.Value(t, msgs[0].Subject).Equal("NEW Outage")
	gt.Array(t, repo.HistoryEntries()).Length(1)
}

func TestCreateDefaultsToOpen(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCases(t)

	d, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{ID: "d-1"})
	gt.NoError(t, err)
	gt.Value(t, d.Status).Equal(types.DisturbanceStatusOpen)
}

func TestCreatePlannedStaysSilent(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusPlanned,
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)
	gt.Array(t, gateway.Messages()).Length(0)
}

func TestCreateDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCases(t)

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{ID: "d-1"})
	gt.NoError(t, err)

	_, err = uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{ID: "d-1"})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagConflict))
}

func TestCreateGatewayFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	gateway.SendBatchFunc = func(context.Context, []*message.Message) error {
		return goerr.New("gateway unavailable", goerr.T(errs.TagExternal))
	}

	req := usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusOpen,
		Title:     "Outage",
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	}
	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", req)
	gt.Error(t, err)

	// nothing was persisted, so the same create can be retried
	_, err = uc.GetDisturbance(ctx, "ELECTRICITY", "d-1")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))

	gateway.SendBatchFunc = nil
	_, err = uc.CreateDisturbance(ctx, "ELECTRICITY", req)
	gt.NoError(t, err)
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCases(t)

	_, err := uc.UpdateDisturbance(ctx, "ELECTRICITY", "missing", disturbance.Update{})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))
}

func TestUpdateRemovedPartyGetsClose(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1", "p2")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:     "d-1",
		Status: types.DisturbanceStatusOpen,
		Title:  "Outage",
		Affecteds: []disturbance.Affected{
			{PartyID: "p1"}, {PartyID: "p2"},
		},
	})
	gt.NoError(t, err)

	merged, err := uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Affecteds: []disturbance.Affected{{PartyID: "p2"}},
	})
	gt.NoError(t, err)

	gt.Array(t, merged.Affecteds).Length(1)
	gt.Value(t, merged.Affecteds[0].PartyID).Equal("p2")

	batches := gateway.Batches()
	gt.Array(t, batches).Length(2) // create NEW + removal CLOSE
	closeBatch := batches[1]
	gt.Array(t, closeBatch).Length(1)
	gt.Value(t, closeBatch[0].Party.PartyID).Equal("p1")
	gt.Value(t, closeBatch[0].Subject).Equal("CLOSE Outage")
}

func TestUpdateAddedPartyGetsNew(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1", "p2")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusOpen,
		Title:     "Outage",
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)

	_, err = uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Affecteds: []disturbance.Affected{
			{PartyID: "p1"}, {PartyID: "p2"},
		},
	})
	gt.NoError(t, err)

	batches := gateway.Batches()
	gt.Array(t, batches).Length(2)
	added := batches[1]
	gt.Array(t, added).Length(1)
	gt.Value(t, added[0].Party.PartyID).Equal("p2")
	gt.Value(t, added[0].Subject).Equal("NEW Outage")
}

func TestUpdateRemovalWinsOverAddition(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1", "p2")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusOpen,
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)

	merged, err := uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Affecteds: []disturbance.Affected{{PartyID: "p2"}},
	})
	gt.NoError(t, err)
	gt.Array(t, merged.Affecteds).Length(1)

	// only the CLOSE for the removed party fires; the addition stays silent
	batches := gateway.Batches()
	gt.Array(t, batches).Length(2)
	gt.Array(t, batches[1]).Length(1)
	gt.Value(t, batches[1][0].Party.PartyID).Equal("p1")
	gt.S(t, batches[1][0].Subject).Contains("CLOSE")
}

func TestUpdateContentChangeDispatchesUpdate(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1", "p2")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:     "d-1",
		Status: types.DisturbanceStatusOpen,
		Title:  "Outage",
		Affecteds: []disturbance.Affected{
			{PartyID: "p1"}, {PartyID: "p2"},
		},
	})
	gt.NoError(t, err)

	_, err = uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Description: ptr.Ref("Repair crew on site"),
	})
	gt.NoError(t, err)

	batches := gateway.Batches()
	gt.Array(t, batches).Length(2)
	gt.Array(t, batches[1]).Length(2) // UPDATE goes to every affected
	gt.S(t, batches[1][0].Subject).Contains("UPDATE")
}

func TestUpdateSameContentStaysSilent(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusOpen,
		Title:     "Outage",
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)

	// same title in different case is not a content change
	_, err = uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Title: ptr.Ref("OUTAGE"),
	})
	gt.NoError(t, err)
	gt.Array(t, gateway.Batches()).Length(1) // only the create NEW
}

func TestUpdateCaseOnlyAffectedChangeStaysSilent(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusOpen,
		Title:     "Outage",
		Affecteds: []disturbance.Affected{{PartyID: "p1", Reference: "ref-1"}},
	})
	gt.NoError(t, err)

	// same affected in different case is neither a removal nor an addition
	_, err = uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Affecteds: []disturbance.Affected{{PartyID: "P1", Reference: "REF-1"}},
	})
	gt.NoError(t, err)
	gt.Array(t, gateway.Batches()).Length(1) // only the create NEW
}

func TestUpdatePlannedContentChangeStaysSilent(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusPlanned,
		Title:     "Maintenance window",
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)

	_, err = uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Description: ptr.Ref("Window moved"),
	})
	gt.NoError(t, err)
	gt.Array(t, gateway.Messages()).Length(0)
}

func TestUpdatePlannedAffectedChangesStaySilent(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1", "p2")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusPlanned,
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)

	merged, err := uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Affecteds: []disturbance.Affected{{PartyID: "p2"}},
	})
	gt.NoError(t, err)
	gt.Array(t, merged.Affecteds).Length(1)
	gt.Array(t, gateway.Messages()).Length(0)
}

func TestUpdatePlannedToOpenAnnouncesToEveryone(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1", "p2", "p3")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:     "d-1",
		Status: types.DisturbanceStatusPlanned,
		Title:  "Maintenance",
		Affecteds: []disturbance.Affected{
			{PartyID: "p1"}, {PartyID: "p2"},
		},
	})
	gt.NoError(t, err)

	// going live adds p3 and flips to OPEN; everyone gets NEW, not only p3
	merged, err := uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Status: ptr.Ref(types.DisturbanceStatusOpen),
		Affecteds: []disturbance.Affected{
			{PartyID: "p1"}, {PartyID: "p2"}, {PartyID: "p3"},
		},
	})
	gt.NoError(t, err)
	gt.Value(t, merged.Status).Equal(types.DisturbanceStatusOpen)

	batches := gateway.Batches()
	gt.Array(t, batches).Length(1)
	gt.Array(t, batches[0]).Length(3)
	for _, msg := range batches[0] {
		gt.S(t, msg.Subject).Contains("NEW")
	}
}

func TestUpdateCloseShortCircuits(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1", "p2")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:     "d-1",
		Status: types.DisturbanceStatusOpen,
		Title:  "Outage",
		Affecteds: []disturbance.Affected{
			{PartyID: "p1"}, {PartyID: "p2"},
		},
	})
	gt.NoError(t, err)

	// closing with a content change and a removal: only CLOSE fires, and it
	// goes to all stored affecteds, not just the removed one
	merged, err := uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Status:      ptr.Ref(types.DisturbanceStatusClosed),
		Description: ptr.Ref("All restored"),
		Affecteds:   []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)
	gt.Value(t, merged.Status).Equal(types.DisturbanceStatusClosed)

	batches := gateway.Batches()
	gt.Array(t, batches).Length(2)
	closeBatch := batches[1]
	gt.Array(t, closeBatch).Length(2)
	for _, msg := range closeBatch {
		gt.S(t, msg.Subject).Contains("CLOSE")
	}
}

func TestUpdateClosedDisturbanceConflicts(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusOpen,
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)

	_, err = uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Status: ptr.Ref(types.DisturbanceStatusClosed),
	})
	gt.NoError(t, err)

	sentBefore := len(gateway.Messages())
	auditBefore := len(repo.HistoryEntries())

	_, err = uc.UpdateDisturbance(ctx, "ELECTRICITY", "d-1", disturbance.Update{
		Title: ptr.Ref("Reopened?"),
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagConflict))

	// the rejected update performs no writes and sends nothing
	gt.Value(t, len(gateway.Messages())).Equal(sentBefore)
	gt.Value(t, len(repo.HistoryEntries())).Equal(auditBefore)

	stored := gt.R1(uc.GetDisturbance(ctx, "ELECTRICITY", "d-1")).NoError(t)
	gt.Value(t, stored.Title).Equal("")
}

func TestDeleteSoftDeletesWithoutDispatch(t *testing.T) {
	ctx := context.Background()
	uc, repo, gateway := newTestUseCases(t)
	seedFeedback(t, repo, "p1")

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID:        "d-1",
		Status:    types.DisturbanceStatusPlanned,
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)

	gt.NoError(t, uc.DeleteDisturbance(ctx, "ELECTRICITY", "d-1"))
	gt.Array(t, gateway.Messages()).Length(0)

	_, err = uc.GetDisturbance(ctx, "ELECTRICITY", "d-1")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))

	// the feedback records went with the parent
	fbs := gt.R1(repo.GetFeedbacks(ctx, "ELECTRICITY", "d-1")).NoError(t)
	gt.Array(t, fbs).Length(0)
}

func TestDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCases(t)

	err := uc.DeleteDisturbance(ctx, "ELECTRICITY", "missing")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCases(t)

	_, err := uc.CreateDisturbance(ctx, "ELECTRICITY", usecase.CreateRequest{
		ID: "d-1", Status: types.DisturbanceStatusOpen,
		Affecteds: []disturbance.Affected{{PartyID: "p1"}},
	})
	gt.NoError(t, err)
	_, err = uc.CreateDisturbance(ctx, "WATER", usecase.CreateRequest{
		ID: "d-2", Status: types.DisturbanceStatusPlanned,
		Affecteds: []disturbance.Affected{{PartyID: "p1"}, {PartyID: "p2"}},
	})
	gt.NoError(t, err)

	all := gt.R1(uc.ListDisturbances(ctx, nil, nil)).NoError(t)
	gt.Array(t, all).Length(2)

	open := gt.R1(uc.ListDisturbances(ctx,
		[]types.DisturbanceStatus{types.DisturbanceStatusOpen}, nil)).NoError(t)
	gt.Array(t, open).Length(1)
	gt.Value(t, open[0].ID).Equal(types.DisturbanceID("d-1"))

	water := gt.R1(uc.ListDisturbances(ctx, nil,
		[]types.Category{"water"})).NoError(t)
	gt.Array(t, water).Length(1)
	gt.Value(t, water[0].Category).Equal(types.Category("WATER"))

	byParty := gt.R1(uc.ListDisturbancesByParty(ctx, "P2", nil, nil)).NoError(t)
	gt.Array(t, byParty).Length(1)
	gt.Value(t, byParty[0].ID).Equal(types.DisturbanceID("d-2"))
}
