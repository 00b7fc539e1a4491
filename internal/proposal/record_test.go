package proposal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamRecord = `{
	"id": 7,
	"format": "service-proposal/v3",
	"provider_id": "0xabc",
	"service_type": "wireguard",
	"compatibility": 2,
	"enabled": true,
	"location": {
		"continent": "EU",
		"country": "DE",
		"city": "Berlin",
		"asn": 3320,
		"isp": "Deutsche Telekom AG",
		"ip_type": "residential",
		"region": null
	},
	"quality": {"quality": 2.5, "latency": 31.4, "monitoring_failed": false},
	"tags": ["a", "b"]
}`

func TestRecord_UnmarshalKnownFields(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(upstreamRecord), &r))

	assert.Equal(t, Scalar("7"), r.ID)
	assert.Equal(t, Scalar("0xabc"), r.ProviderID)
	assert.Equal(t, Scalar("DE"), r.Location.Country)
	assert.Equal(t, Scalar("3320"), r.Location.ASN)
	assert.Equal(t, Scalar("residential"), r.Location.Field("ip_type"))
	assert.Equal(t, Scalar(""), r.Location.Region)
	assert.Equal(t, Scalar(""), r.Location.Field("postalCode"))
	assert.Equal(t, Scalar(""), r.Location.Field("nope"))
}

func TestRecord_UnmarshalKeepsSearchableScalars(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(upstreamRecord), &r))

	assert.Equal(t, Scalar("wireguard"), r.Extra["service_type"])
	assert.Equal(t, Scalar("2"), r.Extra["compatibility"])
	assert.NotContains(t, r.Extra, "enabled")
	assert.NotContains(t, r.Extra, "tags")
	assert.Equal(t, Scalar("31.4"), r.Nested["quality"]["latency"])
	assert.NotContains(t, r.Nested["quality"], "monitoring_failed")

	vals := r.Values()
	assert.Contains(t, vals, Scalar("Berlin"))
	assert.Contains(t, vals, Scalar("wireguard"))
	assert.Contains(t, vals, Scalar("2.5"))
}

func TestRecord_MarshalReturnsOriginalBytes(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(upstreamRecord), &r))

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, upstreamRecord, string(b))
}

func TestRecord_MarshalConstructed(t *testing.T) {
	r := Record{ID: "1", Location: Location{Country: "US", IPType: "hosting"}}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","provider_id":null,"location":{"country":"US","ip_type":"hosting"}}`, string(b))
}

func TestRecord_UnmarshalSlice(t *testing.T) {
	var rs []Record
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"location":{"country":"US"}}, null, {"provider_id":null}]`), &rs))
	require.Len(t, rs, 3)
	assert.Equal(t, Scalar("US"), rs[0].Location.Country)
	assert.Equal(t, Record{}, rs[1])
	assert.Equal(t, Scalar(""), rs[2].ProviderID)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "residential", Normalize("  Residential \t"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}
