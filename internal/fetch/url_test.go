package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHostPage(t *testing.T) {
	assert.True(t, IsHostPage("https://1234567.app.netsuite.com/app/common/entity/custjob.nl?id=42"))
	assert.True(t, IsHostPage("https://system.netsuite.com/pages/login.jsp"))
	assert.False(t, IsHostPage("http://1234567.app.netsuite.com/app"))
	assert.False(t, IsHostPage("https://example.com/netsuite.com/"))
	assert.False(t, IsHostPage("https://netsuite.com.evil.example/"))
}

func TestHasRecordID(t *testing.T) {
	assert.True(t, HasRecordID("https://x.app.netsuite.com/app/accounting/transactions/salesord.nl?id=99"))
	assert.False(t, HasRecordID("https://x.app.netsuite.com/app/center/card.nl"))
	assert.False(t, HasRecordID("://bad"))
}

func TestXMLURL(t *testing.T) {
	assert.Equal(t,
		"https://x.app.netsuite.com/app/record.nl?id=1&xml=T",
		XMLURL("https://x.app.netsuite.com/app/record.nl?id=1"))
	assert.Equal(t,
		"https://x.app.netsuite.com/app/record.nl?xml=T",
		XMLURL("https://x.app.netsuite.com/app/record.nl"))
	assert.Equal(t,
		"https://x.app.netsuite.com/app/record.nl?id=1&xml=T",
		XMLURL("https://x.app.netsuite.com/app/record.nl?id=1&xml=T"),
		"already-tagged URLs pass through")
}

func TestTenantID(t *testing.T) {
	assert.Equal(t, "1234567", TenantID("https://1234567.app.netsuite.com/app/record.nl?id=1"))
	assert.Equal(t, "td2907242", TenantID("https://td2907242.app.netsuite.com/app/center/card.nl"))
	assert.Empty(t, TenantID("https://system.netsuite.com/pages/login.jsp"))
	assert.Empty(t, TenantID("https://a.b.app.netsuite.com/x"), "extra labels don't match")
	assert.Empty(t, TenantID("not a url"))
}
