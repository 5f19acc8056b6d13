package fact

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func payloadFact(payload string) *Fact {
	return &Fact{ID: "f1", OrgID: "org1", Type: TypeTopic, Payload: json.RawMessage(payload)}
}

func TestTextPrefersWellKnownKeys(t *testing.T) {
	f := payloadFact(`{"text":"last resort","title":"the title","subject":"the subject"}`)
	require.Equal(t, "the subject", f.Text())

	f = payloadFact(`{"title":"  the title  "}`)
	require.Equal(t, "the title", f.Text())

	f = payloadFact(`{"irrelevant":"value"}`)
	require.Equal(t, "", f.Text())

	f = payloadFact(``)
	require.Equal(t, "", f.Text())
}

func TestTextTruncatesLongValues(t *testing.T) {
	long := strings.Repeat("a", 200)
	f := payloadFact(`{"title":"` + long + `"}`)

	got := f.Text()
	require.True(t, strings.HasSuffix(got, "…"))
	require.Equal(t, long[:159], strings.TrimSuffix(got, "…"))
}

func TestTextTruncatesOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("çã", 100)
	f := payloadFact(`{"title":"` + long + `"}`)

	got := f.Text()
	require.True(t, utf8.ValidString(got))
	require.Equal(t, string([]rune(long)[:159])+"…", got)
}

func TestOwner(t *testing.T) {
	f := payloadFact(`{"title":"x","owner":" ana "}`)
	require.Equal(t, "ana", f.Owner())

	f = payloadFact(`{"title":"x"}`)
	require.Equal(t, "", f.Owner())
}

func TestPayloadMapToleratesMalformedJSON(t *testing.T) {
	f := payloadFact(`{"broken":`)
	require.Empty(t, f.PayloadMap())

	f = payloadFact(`{"k":"v"}`)
	require.Equal(t, "v", f.PayloadMap()["k"])
}

func TestOverdue(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	f := &Fact{DueAt: &past}
	require.True(t, f.Overdue(now))

	f = &Fact{DueAt: &future}
	require.False(t, f.Overdue(now))

	f = &Fact{}
	require.False(t, f.Overdue(now))
}
