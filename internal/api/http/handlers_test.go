package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/ledger"
	"spaceshare-backend/internal/security"
	"spaceshare-backend/internal/service"
)

const ownerSecret = "owner-secret-for-tests"

// memJournal keeps entries in memory so handler tests run without a
// database.
type memJournal struct {
	entries []domain.JournalEntry
}

func (j *memJournal) Append(_ context.Context, entry *domain.JournalEntry) error {
	j.entries = append(j.entries, *entry)
	return nil
}

func (j *memJournal) ListByParticipant(_ context.Context, id domain.ParticipantID, _, _ int32) ([]domain.JournalEntry, int32, error) {
	var out []domain.JournalEntry
	for _, e := range j.entries {
		if e.Actor == id || e.Counterparty == id {
			out = append(out, e)
		}
	}
	return out, int32(len(out)), nil
}

type fixture struct {
	server  *httptest.Server
	engine  *ledger.Ledger
	journal *memJournal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	engine, err := ledger.New("platform", domain.Rates{
		PricePerHour:      500,
		CommissionPercent: 5,
		RefundPercent:     90,
		ReservationCap:    10000,
		CapacityCeiling:   10000,
	})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(ownerSecret), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	journal := &memJournal{}

	handler := NewHandler(
		service.NewAuthService(tokens, string(hash)),
		service.NewMarketService(engine, journal),
		service.NewRatesService(engine, journal),
	)
	server := httptest.NewServer(NewRouter(handler, tokens))
	t.Cleanup(server.Close)

	return &fixture{server: server, engine: engine, journal: journal}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (f *fixture) ownerToken(t *testing.T) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/v1/auth/owner-token", "", map[string]string{
		"owner_id": "admin",
		"secret":   ownerSecret,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[map[string]string](t, resp)["token"]
}

func (f *fixture) participantToken(t *testing.T, owner string, id string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/v1/auth/participant-tokens", owner, map[string]string{
		"participant_id": id,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[map[string]string](t, resp)["token"]
}

func TestAuthEndpoints(t *testing.T) {
	f := newFixture(t)

	t.Run("OwnerTokenWrongSecret", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/v1/auth/owner-token", "", map[string]string{
			"owner_id": "admin",
			"secret":   "nope",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("MissingToken", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/v1/rates", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ParticipantCannotMintTokens", func(t *testing.T) {
		owner := f.ownerToken(t)
		alice := f.participantToken(t, owner, "alice")

		resp := f.do(t, http.MethodPost, "/v1/auth/participant-tokens", alice, map[string]string{
			"participant_id": "mallory",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestRatesEndpoints(t *testing.T) {
	f := newFixture(t)
	owner := f.ownerToken(t)
	alice := f.participantToken(t, owner, "alice")

	t.Run("GetRates", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/v1/rates", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rates := decode[domain.Rates](t, resp)
		assert.Equal(t, int64(500), rates.PricePerHour)
	})

	t.Run("OwnerUpdates", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/v1/rates/price", owner, map[string]int64{"value": 750})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(750), f.engine.Rates().PricePerHour)
	})

	t.Run("ParticipantForbidden", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/v1/rates/price", alice, map[string]int64{"value": 999})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("InvalidValue", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/v1/rates/commission", owner, map[string]int64{"value": 101})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMarketplaceFlow(t *testing.T) {
	f := newFixture(t)
	owner := f.ownerToken(t)
	alice := f.participantToken(t, owner, "alice")
	bob := f.participantToken(t, owner, "bob")

	// Fund both participants.
	for _, id := range []string{"alice", "bob"} {
		resp := f.do(t, http.MethodPost, "/v1/deposits", owner, map[string]any{
			"participant": id,
			"amount":      10000,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Alice buys hours and lists them.
	resp := f.do(t, http.MethodPost, "/v1/purchases", alice, map[string]int64{"hours": 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/v1/listings", alice, map[string]int64{"hours": 10, "price": 100})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	listing := decode[domain.Listing](t, resp)
	assert.Equal(t, int64(10), listing.HoursOffered)

	// Bob cannot rent without reservation credit.
	resp = f.do(t, http.MethodPost, "/v1/rentals", bob, map[string]any{"lister": "alice", "hours": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/v1/purchases", bob, map[string]int64{"hours": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/v1/rentals", bob, map[string]any{"lister": "alice", "hours": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	receipt := decode[ledger.RentReceipt](t, resp)
	assert.Equal(t, int64(525), receipt.TotalCost)

	// Refund some of Bob's hours.
	resp = f.do(t, http.MethodPost, "/v1/refunds", bob, map[string]int64{"hours": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Queries reflect the transitions.
	resp = f.do(t, http.MethodGet, "/v1/accounts/alice", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	account := decode[domain.Account](t, resp)
	assert.Equal(t, int64(5500), account.Balance)

	resp = f.do(t, http.MethodGet, "/v1/listings/alice", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(5), decode[domain.Listing](t, resp).HoursOffered)

	resp = f.do(t, http.MethodGet, "/v1/capacity", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	capacity := decode[domain.CapacityStatus](t, resp)
	// Renting consumes listed hours but the global counter is only
	// moved by list and unlist.
	assert.Equal(t, int64(10), capacity.Reserved)

	resp = f.do(t, http.MethodGet, "/v1/journal", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	journal := decode[map[string]json.RawMessage](t, resp)
	var total int32
	require.NoError(t, json.Unmarshal(journal["total_count"], &total))
	assert.Equal(t, int32(4), total, "deposit, purchase, failed rent skipped, rent, refund")
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t)
	owner := f.ownerToken(t)
	alice := f.participantToken(t, owner, "alice")

	t.Run("SamePartyBadRequest", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/v1/rentals", alice, map[string]any{"lister": "alice", "hours": 5})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("CapacityConflict", func(t *testing.T) {
		// Shrink the ceiling, then overfill.
		resp := f.do(t, http.MethodPut, "/v1/rates/capacity-ceiling", owner, map[string]int64{"value": 3})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodPost, "/v1/deposits", owner, map[string]any{"participant": "alice", "amount": 10000})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp = f.do(t, http.MethodPost, "/v1/purchases", alice, map[string]int64{"hours": 5})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodPost, "/v1/listings", alice, map[string]int64{"hours": 5, "price": 100})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, f.server.URL+"/v1/purchases", bytes.NewBufferString("{"))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+alice)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownRouteNotFound", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/v1/nope", alice, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
