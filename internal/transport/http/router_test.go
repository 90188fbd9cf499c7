package httptransport_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refguard/internal/audit"
	auditmem "refguard/internal/audit/store/memory"
	"refguard/internal/donation"
	donationmem "refguard/internal/donation/store/memory"
	"refguard/internal/incident"
	incidentmem "refguard/internal/incident/store/memory"
	"refguard/internal/messaging"
	messagingmem "refguard/internal/messaging/store/memory"
	"refguard/internal/reference"
	"refguard/internal/reference/peer"
	"refguard/internal/reference/validator"
	httptransport "refguard/internal/transport/http"
	"refguard/pkg/platform/tx"
	"refguard/pkg/testutil"
)

type incidentBody struct {
	ID    string              `json:"id"`
	State reference.Reference `json:"state"`
}

type idBody struct {
	ID string `json:"id"`
}

type historyBody struct {
	Records []struct {
		Detail     string              `json:"detail"`
		PriorState reference.Reference `json:"prior_state"`
		NewState   reference.Reference `json:"new_state"`
	} `json:"records"`
}

func newStack(t *testing.T, states *peer.StaticClient) http.Handler {
	t.Helper()
	users := &peer.StaticClient{EntityKind: reference.KindUser, Descriptors: []reference.Descriptor{
		{Kind: reference.KindUser, ID: "7"},
		{Kind: reference.KindUser, ID: "8"},
	}}
	photos := &peer.StaticClient{EntityKind: reference.KindPhoto, Descriptors: []reference.Descriptor{{Kind: reference.KindPhoto, ID: "5"}}}
	addresses := &peer.StaticClient{EntityKind: reference.KindAddress, Descriptors: []reference.Descriptor{{Kind: reference.KindAddress, ID: "11"}}}
	registry, err := peer.NewRegistry(states, users, photos, addresses)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	refs := validator.New(registry)
	recorder := audit.NewRecorder(auditmem.NewInMemoryStore())
	runner := tx.NewMemoryRunner()
	incidents := incident.NewService(incidentmem.NewInMemoryStore(), refs, recorder, runner)
	donations := donation.NewService(donationmem.NewInMemoryStore(), refs)
	conversations := messaging.NewService(messagingmem.NewInMemoryStore(), refs, recorder, runner)

	return httptransport.NewRouter(nil, map[string]httptransport.HealthCheck{},
		httptransport.NewReferenceHandler(refs, logger),
		httptransport.NewAuditHandler(recorder, logger),
		httptransport.NewIncidentHandler(incidents, logger),
		httptransport.NewDonationHandler(donations, logger),
		httptransport.NewMessagingHandler(conversations, logger),
	)
}

func TestIncidentLifecycleOverHTTP(t *testing.T) {
	states := &peer.StaticClient{EntityKind: reference.KindState, Descriptors: []reference.Descriptor{
		{Kind: reference.KindState, ID: "1"},
		{Kind: reference.KindState, ID: "3"},
	}}
	router := newStack(t, states)
	var created *incidentBody

	testutil.Given(t, "an incident in state 1", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/incidents",
			map[string]any{"title": "flooded street", "state_id": 1, "reporter_id": 7}))
		require.Equal(t, http.StatusCreated, rr.Code)
		created = testutil.UnmarshalResponse[incidentBody](t, rr)

		testutil.When(t, "an operator escalates it to state 3", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/incidents/"+created.ID+"/state",
				map[string]any{"state_id": 3, "detail": "escalated by operator"}))
			require.Equal(t, http.StatusOK, rr.Code)

			testutil.Then(t, "exactly one audit record describes the transition", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/audit/incident/"+created.ID, nil))
				require.Equal(t, http.StatusOK, rr.Code)
				history := testutil.UnmarshalResponse[historyBody](t, rr)
				require.Len(t, history.Records, 1)
				assert.Equal(t, reference.ID("1"), history.Records[0].PriorState.ID)
				assert.Equal(t, reference.ID("3"), history.Records[0].NewState.ID)
				assert.Equal(t, "escalated by operator", history.Records[0].Detail)
			})
		})

		testutil.When(t, "the state service goes down", func(t *testing.T) {
			states.Err = peer.Unreachable(reference.KindState, errors.New("connection refused"))
			defer func() { states.Err = nil }()

			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/incidents/"+created.ID+"/state",
				map[string]any{"state_id": 1}))

			testutil.Then(t, "the change is refused as unavailable", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, "service_unavailable")
			})
			testutil.And(t, "no further audit record is written", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/audit/incident/"+created.ID, nil))
				history := testutil.UnmarshalResponse[historyBody](t, rr)
				assert.Len(t, history.Records, 1)
			})
		})
	})
}

func TestDonationFromUnknownDonorOverHTTP(t *testing.T) {
	router := newStack(t, &peer.StaticClient{EntityKind: reference.KindState})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/donations",
		map[string]any{"donor_id": 999, "amount": 100}))

	testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation_error")
	assert.Contains(t, rr.Body.String(), "999")
}

func TestValidateUnknownKindOverHTTP(t *testing.T) {
	router := newStack(t, &peer.StaticClient{EntityKind: reference.KindState})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/references/validate",
		map[string]any{"kind": "planet", "id": 1}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestIncidentListingOverHTTP(t *testing.T) {
	states := &peer.StaticClient{EntityKind: reference.KindState, Descriptors: []reference.Descriptor{
		{Kind: reference.KindState, ID: "1"},
		{Kind: reference.KindState, ID: "2"},
	}}
	router := newStack(t, states)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/incidents",
		map[string]any{"title": "broken lamp", "state_id": 1, "address_id": 11, "reporter_id": 7}))
	require.Equal(t, http.StatusCreated, rr.Code)
	created := testutil.UnmarshalResponse[incidentBody](t, rr)
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/incidents/"+created.ID+"/state",
		map[string]any{"state_id": 2}))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/incidents", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	listed := testutil.UnmarshalResponse[struct {
		Incidents []incidentBody `json:"incidents"`
	}](t, rr)
	require.Len(t, listed.Incidents, 1)
	assert.Equal(t, reference.ID("2"), listed.Incidents[0].State.ID)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/incidents/"+created.ID+"/history", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, testutil.UnmarshalResponse[historyBody](t, rr).Records, 1)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/incidents/"+uuid.NewString()+"/history", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestNotificationReadOverHTTP(t *testing.T) {
	states := &peer.StaticClient{EntityKind: reference.KindState, Descriptors: []reference.Descriptor{
		{Kind: reference.KindState, ID: "1"},
		{Kind: reference.KindState, ID: "10"},
		{Kind: reference.KindState, ID: "11"},
	}}
	router := newStack(t, states)
	var conversation, notification *idBody

	testutil.Given(t, "a message in a conversation with an unread notification", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/conversations",
			map[string]any{"title": "lamp repair", "participant_ids": []int{7, 8}}))
		require.Equal(t, http.StatusCreated, rr.Code)
		conversation = testutil.UnmarshalResponse[idBody](t, rr)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/conversations/"+conversation.ID+"/messages",
			map[string]any{"sender_id": 7, "body": "the lamp is out again", "state_id": 1}))
		require.Equal(t, http.StatusCreated, rr.Code)
		message := testutil.UnmarshalResponse[idBody](t, rr)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/messages/"+message.ID+"/notifications",
			map[string]any{"recipient_id": 8, "state_id": 10}))
		require.Equal(t, http.StatusCreated, rr.Code)
		notification = testutil.UnmarshalResponse[idBody](t, rr)

		testutil.When(t, "the recipient reads it", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/notifications/"+notification.ID+"/read",
				map[string]any{"state_id": 11, "detail": "opened"}))
			require.Equal(t, http.StatusOK, rr.Code)

			testutil.Then(t, "the notification carries one audit record", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/audit/notification/"+notification.ID, nil))
				require.Equal(t, http.StatusOK, rr.Code)
				history := testutil.UnmarshalResponse[historyBody](t, rr)
				require.Len(t, history.Records, 1)
				assert.Equal(t, reference.ID("10"), history.Records[0].PriorState.ID)
				assert.Equal(t, reference.ID("11"), history.Records[0].NewState.ID)
			})
		})

		testutil.When(t, "the conversation is deleted", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodDelete, "/v1/conversations/"+conversation.ID, nil))
			require.Equal(t, http.StatusNoContent, rr.Code)

			testutil.Then(t, "the notification audit trail goes with it", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/audit/notification/"+notification.ID, nil))
				require.Equal(t, http.StatusOK, rr.Code)
				assert.Empty(t, testutil.UnmarshalResponse[historyBody](t, rr).Records)
			})
		})
	})
}

func TestConversationWithUnknownParticipantOverHTTP(t *testing.T) {
	router := newStack(t, &peer.StaticClient{EntityKind: reference.KindState})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/conversations",
		map[string]any{"participant_ids": []int{7, 999}}))
	testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation_error")
}

func TestProfilesTeamsAndDonorListingOverHTTP(t *testing.T) {
	router := newStack(t, &peer.StaticClient{EntityKind: reference.KindState})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/profiles/7",
		map[string]any{"address_id": 11, "avatar_id": 5, "bio": "night shift"}))
	require.Equal(t, http.StatusOK, rr.Code)
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/profiles/7", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	profile := testutil.UnmarshalResponse[donation.Profile](t, rr)
	assert.Equal(t, reference.New(reference.KindAddress, "11"), profile.Address)
	assert.Equal(t, "night shift", profile.Bio)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/v1/profiles/7",
		map[string]any{"avatar_id": 404}))
	testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "validation_error")

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/teams",
		map[string]any{"name": "night crew", "member_ids": []int{7, 8, 7}}))
	require.Equal(t, http.StatusCreated, rr.Code)
	team := testutil.UnmarshalResponse[donation.Team](t, rr)
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/teams/"+team.ID.String(), nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, testutil.UnmarshalResponse[donation.Team](t, rr).Members, 2)

	for _, amount := range []int{100, 250} {
		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/donations",
			map[string]any{"donor_id": 7, "photo_id": 5, "amount": amount}))
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/donations?donor_id=7", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	listed := testutil.UnmarshalResponse[struct {
		Donations []idBody `json:"donations"`
	}](t, rr)
	assert.Len(t, listed.Donations, 2)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/v1/donations", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}
