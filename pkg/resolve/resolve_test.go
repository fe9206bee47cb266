package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SZRabinowitz/slackscope/pkg/slack"
)

// fakeDirectory is an in-memory Directory with call counting, so tests
// can assert that raw IDs never trigger lookups.
type fakeDirectory struct {
	channels []slack.RawChannel
	users    []slack.RawUser
	dms      map[string]string // user id -> DM id
	calls    int
}

func (d *fakeDirectory) NameIndex(ctx context.Context, types []string, excludeArchived bool, maxItems, maxPages int) ([]slack.RawChannel, error) {
	d.calls++
	return d.channels, nil
}

func (d *fakeDirectory) Users(ctx context.Context) ([]slack.RawUser, error) {
	d.calls++
	return d.users, nil
}

func (d *fakeDirectory) DMForUser(ctx context.Context, userID string) (slack.RawChannel, bool, error) {
	d.calls++
	id, ok := d.dms[userID]
	return slack.RawChannel{ID: id, IsIM: true, User: userID}, ok, nil
}

func namedUser(id, handle, display, real string) slack.RawUser {
	u := slack.RawUser{ID: id, Name: handle}
	u.Profile.DisplayName = display
	u.Profile.RealName = real
	return u
}

func TestConversationRawIDSkipsLookup(t *testing.T) {
	dir := &fakeDirectory{}
	for _, id := range []string{"C024BE91L", "D024BE91L", "G024BE91L"} {
		got, err := Conversation(context.Background(), dir, id)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
	assert.Zero(t, dir.calls, "raw IDs must resolve without any directory lookup")
}

func TestConversationExactBeforeNormalized(t *testing.T) {
	dir := &fakeDirectory{channels: []slack.RawChannel{
		{ID: "C1", Name: "eng"},
		{ID: "C2", Name: "Eng"},
	}}

	got, err := Conversation(context.Background(), dir, "#eng")
	require.NoError(t, err)
	assert.Equal(t, "C1", got, "a case-sensitive match wins before normalization runs")
}

func TestConversationNormalizedMatch(t *testing.T) {
	dir := &fakeDirectory{channels: []slack.RawChannel{
		{ID: "C1", Name: "Eng-Private", IsPrivate: true},
		{ID: "C2", Name: "general"},
	}}

	got, err := Conversation(context.Background(), dir, "engprivate")
	require.NoError(t, err)
	assert.Equal(t, "C1", got)
}

func TestConversationAmbiguous(t *testing.T) {
	dir := &fakeDirectory{channels: []slack.RawChannel{
		{ID: "C1", Name: "dev"},
		{ID: "C2", Name: "dev"},
	}}

	_, err := Conversation(context.Background(), dir, "#dev")
	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	require.Len(t, amb.Candidates, 2)
	assert.Equal(t, "C1", amb.Candidates[0].ID)
	assert.Equal(t, "C2", amb.Candidates[1].ID)
	assert.Equal(t, "#dev", amb.Candidates[0].Name)
}

func TestConversationNotFound(t *testing.T) {
	dir := &fakeDirectory{channels: []slack.RawChannel{{ID: "C1", Name: "general"}}}

	_, err := Conversation(context.Background(), dir, "#nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "#nope", nf.Target)
}

func TestConversationBareNameFallsBackToDM(t *testing.T) {
	dir := &fakeDirectory{
		channels: []slack.RawChannel{{ID: "C1", Name: "general"}},
		users:    []slack.RawUser{namedUser("U1", "jane", "", "")},
		dms:      map[string]string{"U1": "D9"},
	}

	got, err := Conversation(context.Background(), dir, "jane")
	require.NoError(t, err)
	assert.Equal(t, "D9", got)
}

func TestUserResolution(t *testing.T) {
	dir := &fakeDirectory{users: []slack.RawUser{
		namedUser("U1", "jane", "Jane D", "Jane Doe"),
		namedUser("U2", "omar", "", "Omar H"),
		namedUser("U3", "old-jane", "", "Jane Doe"),
	}}
	dir.users[2].Deleted = true

	ctx := context.Background()

	got, err := User(ctx, dir, "@jane")
	require.NoError(t, err)
	assert.Equal(t, "U1", got)

	got, err = User(ctx, dir, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "U1", got, "deleted users never match")

	got, err = User(ctx, dir, "omarh")
	require.NoError(t, err)
	assert.Equal(t, "U2", got, "normalized real-name match")

	got, err = User(ctx, dir, "U024BE7LH")
	require.NoError(t, err)
	assert.Equal(t, "U024BE7LH", got)

	_, err = User(ctx, dir, "@ghost")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUserAmbiguous(t *testing.T) {
	dir := &fakeDirectory{users: []slack.RawUser{
		namedUser("U1", "jane", "", "Jane Doe"),
		namedUser("U2", "jdoe", "", "Jane Doe"),
	}}

	_, err := User(context.Background(), dir, "Jane Doe")
	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Len(t, amb.Candidates, 2)
}

func TestDM(t *testing.T) {
	dir := &fakeDirectory{
		users: []slack.RawUser{namedUser("U1", "jane", "", "")},
		dms:   map[string]string{"U1": "D9"},
	}
	ctx := context.Background()

	got, err := DM(ctx, dir, "D024BE91L")
	require.NoError(t, err)
	assert.Equal(t, "D024BE91L", got, "raw DM IDs pass through")

	got, err = DM(ctx, dir, "@jane")
	require.NoError(t, err)
	assert.Equal(t, "D9", got)
}

func TestDMNotFound(t *testing.T) {
	dir := &fakeDirectory{
		users: []slack.RawUser{namedUser("U1", "jane", "", "")},
		dms:   map[string]string{},
	}

	_, err := DM(context.Background(), dir, "@jane")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "engprivate", normalizeName("Eng-Private"))
	assert.Equal(t, "janedoe", normalizeName("Jane Doe"))
	assert.Equal(t, "", normalizeName("---"))
}
