package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"node-data/internal/proposal"
	"node-data/internal/store"
	"node-data/internal/view"
)

type result struct {
	Records []struct {
		ID         json.Number `json:"id"`
		ProviderID string      `json:"provider_id"`
	} `json:"records"`
	Page           int               `json:"page"`
	NumPages       int               `json:"num_pages"`
	Total          int               `json:"total"`
	Pages          []view.PageButton `json:"pages"`
	Filter         view.Filter       `json:"filter"`
	Sort           view.Sort         `json:"sort"`
	IPTypeOptions  []string          `json:"ip_type_options"`
	CountryOptions []string          `json:"country_options"`
	Loaded         bool              `json:"loaded"`
	Count          int               `json:"count"`
	LastUpdated    *time.Time        `json:"last_updated"`
	FetchedAgo     string            `json:"fetched_ago"`
	Error          string            `json:"error"`
}

func (r result) ids() []string {
	out := make([]string, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.ID.String()
	}
	return out
}

const sample = `[
{"id":1,"provider_id":"p1","location":{"country":"US","ip_type":"residential","isp":"A"}},
{"id":2,"provider_id":"p2","location":{"country":"US","ip_type":"datacenter","isp":"B"}},
{"id":3,"provider_id":"p3","location":{"country":"DE","ip_type":"residential","isp":"C"}}]`

func newStore(t *testing.T, body string) *store.Store {
	t.Helper()
	var recs []proposal.Record
	require.NoError(t, json.Unmarshal([]byte(body), &recs))
	st := store.New()
	st.Replace(recs)
	return st
}

func newServer(t *testing.T, st *store.Store, ttl time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(BuildRoutes(st, view.NewTable(st), ttl))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, result) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	var out result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestProposals_Defaults(t *testing.T) {
	srv := newServer(t, newStore(t, sample), time.Minute)
	code, r := get(t, srv, "/proposals")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, []string{"1", "2", "3"}, r.ids())
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 1, r.NumPages)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, view.DefaultFilter(), r.Filter)
	assert.Equal(t, view.Sort{Order: view.Asc}, r.Sort)
	assert.Equal(t, []string{"datacenter", "residential"}, r.IPTypeOptions)
	assert.Equal(t, []string{"DE", "US"}, r.CountryOptions)
	assert.True(t, r.Loaded)
	assert.Equal(t, 3, r.Count)
	assert.NotNil(t, r.LastUpdated)
	assert.NotEmpty(t, r.FetchedAgo)
}

func TestProposals_FilterSortSearch(t *testing.T) {
	srv := newServer(t, newStore(t, sample), time.Minute)

	_, r := get(t, srv, "/proposals?country=US")
	assert.Equal(t, []string{"1", "2"}, r.ids())
	assert.Equal(t, []string{"datacenter", "residential"}, r.IPTypeOptions)

	_, r = get(t, srv, "/proposals?search=resid")
	assert.Equal(t, []string{"1", "3"}, r.ids())

	_, r = get(t, srv, "/proposals?sort=isp&order=desc")
	assert.Equal(t, []string{"3", "2", "1"}, r.ids())
}

func TestProposals_BadParams(t *testing.T) {
	srv := newServer(t, newStore(t, sample), 0)
	for _, q := range []string{"?sort=asn", "?order=sideways", "?page=two"} {
		code, r := get(t, srv, "/proposals"+q)
		assert.Equal(t, http.StatusBadRequest, code, q)
		assert.NotEmpty(t, r.Error, q)
	}
}

func TestProposals_PageClamped(t *testing.T) {
	recs := "["
	for i := 1; i <= 120; i++ {
		if i > 1 {
			recs += ","
		}
		recs += `{"id":` + strconv.Itoa(i) + `,"location":{"country":"US"}}`
	}
	recs += "]"
	srv := newServer(t, newStore(t, recs), time.Minute)

	_, r := get(t, srv, "/proposals?page=5")
	assert.Equal(t, 3, r.NumPages)
	assert.Equal(t, 3, r.Page)
	assert.Len(t, r.Records, 20)
	assert.Equal(t, []view.PageButton{{Page: 1}, {Page: 2}, {Page: 3, Active: true}}, r.Pages)
}

func TestProposals_CacheFollowsStoreGeneration(t *testing.T) {
	st := newStore(t, sample)
	srv := newServer(t, st, time.Hour)

	_, r := get(t, srv, "/proposals?country=DE")
	require.Equal(t, []string{"3"}, r.ids())

	st.Reset()
	_, r = get(t, srv, "/proposals?country=DE")
	assert.Empty(t, r.Records)
	assert.False(t, r.Loaded)
	assert.Equal(t, 1, r.NumPages)
}

func TestProposals_EmptyStore(t *testing.T) {
	srv := newServer(t, store.New(), time.Minute)
	code, r := get(t, srv, "/proposals?page=3")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, r.Records)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 1, r.NumPages)
	assert.False(t, r.Loaded)
	assert.Nil(t, r.LastUpdated)
	assert.Empty(t, r.FetchedAgo)
	assert.Equal(t, []string{}, r.IPTypeOptions)
}

func TestTable_Handlers(t *testing.T) {
	srv := newServer(t, newStore(t, sample), time.Minute)

	_, r := get(t, srv, "/table/country?value=US")
	assert.Equal(t, []string{"1", "2"}, r.ids())
	assert.Equal(t, "US", r.Filter.Country)

	_, r = get(t, srv, "/table/sort?field=isp")
	assert.Equal(t, []string{"1", "2"}, r.ids())
	_, r = get(t, srv, "/table/sort?field=isp")
	assert.Equal(t, []string{"2", "1"}, r.ids())
	assert.Equal(t, view.Sort{Field: "isp", Order: view.Desc}, r.Sort)

	_, r = get(t, srv, "/table/country")
	assert.Equal(t, view.All, r.Filter.Country)
	assert.Equal(t, []string{"3", "2", "1"}, r.ids())

	_, r = get(t, srv, "/table/search?q=RESID")
	assert.Equal(t, []string{"3", "1"}, r.ids())

	_, r = get(t, srv, "/table/ip-type?value=datacenter")
	assert.Empty(t, r.Records)
	assert.Equal(t, []string{"US"}, r.CountryOptions)

	_, r = get(t, srv, "/table")
	assert.Equal(t, "RESID", r.Filter.Search)
	assert.Equal(t, "datacenter", r.Filter.IPType)

	_, r = get(t, srv, "/table/page?n=9")
	assert.Equal(t, 1, r.Page)
}

func TestTable_BadParams(t *testing.T) {
	srv := newServer(t, newStore(t, sample), time.Minute)
	for _, p := range []string{"/table/sort", "/table/sort?field=asn", "/table/page", "/table/page?n=x"} {
		code, _ := get(t, srv, p)
		assert.Equal(t, http.StatusBadRequest, code, p)
	}
}

func TestStatus(t *testing.T) {
	st := store.New()
	srv := newServer(t, st, time.Minute)

	_, r := get(t, srv, "/status")
	assert.False(t, r.Loaded)
	assert.Zero(t, r.Count)

	st.Replace(make([]proposal.Record, 4))
	_, r = get(t, srv, "/status")
	assert.True(t, r.Loaded)
	assert.Equal(t, 4, r.Count)
	assert.Equal(t, "now", r.FetchedAgo)
}
