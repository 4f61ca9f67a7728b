package tempvoice

import (
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FolkiDevv/partysys/internal/models"
)

func TestCreateRoomProvisionsChannel(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")

	channel := room.Channel()
	assert.Equal(t, "owner's channel", channel.Name)
	assert.Equal(t, 4, channel.UserLimit)
	assert.Equal(t, testCategoryID, channel.ParentID)
	assert.True(t, f.server.IsTempChannel(channel.ID))

	// The member was moved out of the creator channel into the room.
	members := f.platform.ChannelMembers(testGuildID, channel.ID)
	require.Len(t, members, 1)
	assert.Equal(t, "owner", members[0].User.ID)
	assert.Empty(t, f.platform.ChannelMembers(testGuildID, testCreatorChannel))

	ov, ok := f.platform.overwrite(channel.ID, "owner")
	require.True(t, ok)
	assert.Equal(t, ownerPermissions, ov.allow)

	row := f.store.tempRow(channel.ID)
	require.NotNil(t, row)
	assert.Equal(t, "owner", row.CreatorID)
	assert.Equal(t, "owner", row.OwnerID)
	assert.False(t, row.Deleted)

	// Control interface was posted into the room chat.
	assert.Equal(t, 1, f.platform.messageCount(channel.ID))
}

func TestCreateRoomUnknownCreatorChannel(t *testing.T) {
	f := newFixture(t)
	member := newMember("owner", "owner")
	f.platform.addMember(member)

	channel, err := f.server.CreateRoom(member, "not-a-creator")
	require.NoError(t, err)
	assert.Nil(t, channel)
}

func TestCreateRoomVanishedCategory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.platform.DeleteChannel(testCategoryID, ""))

	member := newMember("owner", "owner")
	f.platform.addMember(member)

	channel, err := f.server.CreateRoom(member, testCreatorChannel)
	require.NoError(t, err)
	assert.Nil(t, channel)
}

func TestCreateRoomMemberLeftBeforeMove(t *testing.T) {
	f := newFixture(t)
	member := newMember("owner", "owner")
	f.platform.addMember(member)
	f.platform.putInVoice(testCreatorChannel, "owner")

	f.platform.moveErr = restError(400, codeTargetNotConnected)

	channel, err := f.server.CreateRoom(member, testCreatorChannel)
	require.NoError(t, err)
	assert.Nil(t, channel)

	// The void room was rolled back entirely.
	assert.Empty(t, f.server.Rooms())
	require.Len(t, f.platform.deletedChannels, 1)
	row := f.store.tempRow(f.platform.deletedChannels[0])
	require.NotNil(t, row)
	assert.True(t, row.Deleted)
}

func TestCreateRoomReappliesCreatorBans(t *testing.T) {
	f := newFixture(t)

	banned := newMember("banned", "banned")
	f.platform.addMember(banned)
	require.NoError(t, f.store.UpsertBan(1, "owner", "banned", true))

	room := f.createRoom(t, "owner")

	ov, ok := f.platform.overwrite(room.Channel().ID, "banned")
	require.True(t, ok)
	assert.Equal(t, banPermissions, ov.deny)
}

func TestCreateRoomSkipsBansForDepartedMembers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.UpsertBan(1, "owner", "ghost", true))

	room := f.createRoom(t, "owner")

	_, ok := f.platform.overwrite(room.Channel().ID, "ghost")
	assert.False(t, ok)
}

func TestDeleteRoomCascadesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")
	require.NoError(t, room.SendAdv(""))
	advMessageID := room.adv.messageID
	channelID := room.Channel().ID

	require.NoError(t, f.server.DeleteRoom(channelID))

	assert.False(t, f.server.IsTempChannel(channelID))
	assert.Contains(t, f.platform.deletedChannels, channelID)
	assert.Contains(t, f.platform.deletedMessages, advMessageID)

	row := f.store.tempRow(channelID)
	require.NotNil(t, row)
	assert.True(t, row.Deleted)

	require.NoError(t, f.server.DeleteRoom(channelID))
}

func TestRoomOwnedBy(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")

	owner := newMember("owner", "owner")
	assert.Equal(t, room, f.server.RoomOwnedBy(owner, ""))
	assert.Equal(t, room, f.server.RoomOwnedBy(owner, "elsewhere"))

	stranger := newMember("stranger", "stranger")
	assert.Nil(t, f.server.RoomOwnedBy(stranger, room.Channel().ID))
}

func TestRoomOwnedByAdminOverride(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")

	admin := newMember("admin", "admin")
	admin.Permissions = discordgo.PermissionAdministrator

	// Admin acting from inside the room gets it despite not owning it.
	assert.Equal(t, room, f.server.RoomOwnedBy(admin, room.Channel().ID))
	assert.Nil(t, f.server.RoomOwnedBy(admin, ""))
}

func TestRoomTransferredBy(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")

	successor := newMember("successor", "successor")
	f.platform.addMember(successor)
	require.NoError(t, room.ChangeOwner(successor))

	oldOwner := newMember("owner", "owner")
	assert.Nil(t, f.server.RoomOwnedBy(oldOwner, ""))
	assert.Equal(t, room, f.server.RoomTransferredBy("owner"))
	assert.Nil(t, f.server.RoomTransferredBy("successor"))
}

func TestConcurrentLookupsAndRoomMutations(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")

	owner := newMember("owner", "owner")
	target := newMember("target", "target")
	f.platform.addMember(target)

	// Lookups walk rooms while room operations re-enter the registry and a
	// refresh writer keeps contending for it. All workers must drain.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				f.server.RoomOwnedBy(owner, room.Channel().ID)
				f.server.RoomTransferredBy("owner")
			}
		}()
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = room.Ban(target)
				_, _ = room.ActiveBans()
				_ = room.UpdateAdv("")
			}
		}()
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = f.server.ForceRefresh()
			}
		}()
	}

	time.Sleep(200 * time.Millisecond)
	close(stop)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("registry access wedged under contention")
	}
}

func TestRefreshIsRateLimited(t *testing.T) {
	f := newFixture(t)
	calls := f.store.guildConfigCalls

	require.NoError(t, f.server.Refresh())
	assert.Equal(t, calls, f.store.guildConfigCalls)

	require.NoError(t, f.server.ForceRefresh())
	assert.Equal(t, calls+1, f.store.guildConfigCalls)
}

func TestManagerServerUnconfiguredGuild(t *testing.T) {
	platform := newFakePlatform()
	store := newFakeStore()
	mgr := NewManager(platform, store, testConfig(), testLogger())

	assert.Nil(t, mgr.Server(testGuildID))

	// Guild gets configured later; the miss was not cached.
	store.guild = &models.Guild{ID: 1, GuildID: testGuildID, AdvChannelID: testAdvChannelID}
	require.NoError(t, mgr.ForceRefresh(testGuildID))
	assert.NotNil(t, mgr.Server(testGuildID))
}

func TestRestoreRoomRoundTrip(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")
	require.NoError(t, room.SendAdv("still recruiting"))
	channelID := room.Channel().ID

	// Simulate a restart: a fresh registry over the same store and platform.
	srv := newServer(testGuildID, f.platform, f.store, f.cfg, testLogger())
	require.NoError(t, srv.Refresh())

	rows, err := f.store.ActiveTempChannels()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	channel, err := f.platform.Channel(rows[0].ChannelID)
	require.NoError(t, err)

	restored := srv.RestoreRoom(channel, rows[0].OwnerID, rows[0].CreatorID, rows[0].AdvMessageID)
	require.NotNil(t, restored)

	assert.True(t, srv.IsTempChannel(channelID))
	assert.Equal(t, "owner", restored.Owner().User.ID)
	assert.True(t, restored.AdvLive())
}

func TestRestoreRoomFallsBackToBotIdentity(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "gone")
	channelID := room.Channel().ID

	srv := newServer(testGuildID, f.platform, f.store, f.cfg, testLogger())
	require.NoError(t, srv.Refresh())

	// The owner left the guild while the bot was down.
	f.platform.mu.Lock()
	delete(f.platform.members, "gone")
	f.platform.mu.Unlock()

	channel, err := f.platform.Channel(channelID)
	require.NoError(t, err)

	restored := srv.RestoreRoom(channel, "gone", "gone", nil)
	require.NotNil(t, restored)
	assert.Equal(t, "bot", restored.Owner().User.ID)
}

func TestRestoreRoomVanishedAdvMessage(t *testing.T) {
	f := newFixture(t)
	room := f.createRoom(t, "owner")
	require.NoError(t, room.SendAdv(""))
	messageID := room.adv.messageID
	require.NoError(t, f.platform.DeleteMessage(testAdvChannelID, messageID))

	srv := newServer(testGuildID, f.platform, f.store, f.cfg, testLogger())
	require.NoError(t, srv.Refresh())

	channel, err := f.platform.Channel(room.Channel().ID)
	require.NoError(t, err)

	restored := srv.RestoreRoom(channel, "owner", "owner", &messageID)
	require.NotNil(t, restored)
	assert.False(t, restored.AdvLive())
}
