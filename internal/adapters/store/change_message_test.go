package store

import (
	"delivery-tracker/internal/domain"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeChange(t *testing.T) {
	d := sample("PKG-001", domain.StatusInTransit)

	payload, err := encodeChange("deliveries", domain.Changed("k1", d))
	require.NoError(t, err)

	coll, ev, err := decodeChange(payload, logrus.New())
	require.NoError(t, err)
	assert.Equal(t, "deliveries", coll)
	assert.Equal(t, domain.Changed("k1", d), ev)
}

func TestEncodeRemovedOmitsRecord(t *testing.T) {
	payload, err := encodeChange("deliveries", domain.Removed("k1"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"collection":"deliveries","op":"removed","key":"k1"}`, string(payload))
}

func TestDecodeChangeTriggerPayload(t *testing.T) {
	payload := `{"collection":"deliveries","op":"added","key":"01HX","record":{"packageId":"PKG-9","status":"Pending","latitude":1.5,"longitude":2.5}}`

	coll, ev, err := decodeChange([]byte(payload), logrus.New())
	require.NoError(t, err)
	assert.Equal(t, "deliveries", coll)
	assert.Equal(t, domain.EventAdded, ev.Kind)
	assert.Equal(t, "PKG-9", ev.Delivery.PackageID)
	assert.Equal(t, domain.Coordinates{Lat: 1.5, Lon: 2.5}, ev.Delivery.Position())
}

func TestDecodeChangeMalformedRecordYieldsEmptyDelivery(t *testing.T) {
	logger, hook := test.NewNullLogger()
	payload := `{"op":"changed","key":"k1","record":{"latitude":"north"}}`

	_, ev, err := decodeChange([]byte(payload), logger)
	require.NoError(t, err)
	assert.Equal(t, domain.Changed("k1", domain.Delivery{}), ev)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestDecodeChangeRejectsBadEnvelope(t *testing.T) {
	_, _, err := decodeChange([]byte(`not json`), logrus.New())
	assert.Error(t, err)

	_, _, err = decodeChange([]byte(`{"op":"renamed","key":"k"}`), logrus.New())
	assert.ErrorContains(t, err, "unknown op")
}
