package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain"
)

func TestAssets_IndexOf(t *testing.T) {
	assets := domain.Assets{
		{PublicID: "business_profiles/a.jpg"},
		{PublicID: "business_profiles/b.jpg"},
	}

	assert.Equal(t, 1, assets.IndexOf("business_profiles/b.jpg"))
	assert.Equal(t, -1, assets.IndexOf("missing"))
}

func TestAssets_ScanValue(t *testing.T) {
	var assets domain.Assets
	require.NoError(t, assets.Scan(nil))
	assert.NotNil(t, assets)
	assert.Len(t, assets, 0)

	require.NoError(t, assets.Scan([]byte(`[{"public_id":"x","url":"http://cdn/x"}]`)))
	require.Len(t, assets, 1)
	assert.Equal(t, "http://cdn/x", assets[0].URL)

	var empty domain.Assets
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestOutboxEvent_Notification(t *testing.T) {
	ev := domain.NewOutboxEvent(uuid.New(), domain.NotifNewOrder, "New order received", map[string]string{"order_id": "o1"})
	n := ev.Notification()

	assert.Equal(t, ev.ID, n.ID)
	assert.Equal(t, domain.NotifNewOrder, n.Type)
	assert.JSONEq(t, `{"order_id":"o1"}`, string(n.Metadata))
	assert.False(t, n.Read)
}
