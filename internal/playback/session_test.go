package playback

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/obfusk/m/internal/player"
	"github.com/obfusk/m/internal/player/mocks"
	"github.com/obfusk/m/internal/scan"
	"github.com/obfusk/m/internal/store"
)

var testNow = time.Date(2017, 12, 7, 20, 15, 0, 0, time.UTC)

func testSession(t *testing.T) (*Session, *mocks.MockPlayer, *store.Store, string) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockPlayer(ctrl)
	st := store.New(t.TempDir())
	dir := t.TempDir()
	return NewSession(st, mock, 5*time.Second, testLogger()), mock, st, dir
}

func TestPlayNext_ResumesPlayingFile(t *testing.T) {
	s, mock, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv", "B.mkv", "C.mkv")

	done := store.Done()
	playing := store.Playing(238*time.Second, testNow)
	_, err := st.Update(dir, map[string]*store.FileState{"A.mkv": &done, "B.mkv": &playing})
	require.NoError(t, err)

	path := filepath.Join(dir, "B.mkv")
	mock.EXPECT().Play(gomock.Any(), path, 233*time.Second).Return(nil)
	mock.EXPECT().Resume(path).Return(player.Resume{Position: 500 * time.Second, Duration: 1435 * time.Second}, true)

	res, err := s.PlayNext(context.Background(), dir, scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, "B.mkv", res.Name)

	rec, err := st.Load(dir)
	require.NoError(t, err)
	got := rec.Files["B.mkv"]
	assert.Equal(t, store.StatePlaying, got.State)
	assert.Equal(t, 500*time.Second, got.Position)
	assert.WithinDuration(t, time.Now(), got.UpdatedAt, 10*time.Second)
	assert.Equal(t, got, res.State, "result mirrors the persisted state")
}

func TestPlayNext_FirstNewStartsFromZero(t *testing.T) {
	s, mock, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv", "B.mkv")

	path := filepath.Join(dir, "A.mkv")
	mock.EXPECT().Play(gomock.Any(), path, time.Duration(0)).Return(nil)
	mock.EXPECT().Resume(path).Return(player.Resume{}, false)

	res, err := s.PlayNext(context.Background(), dir, scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, "A.mkv", res.Name)
	assert.Equal(t, store.Done(), res.State)

	rec, err := st.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, store.Done(), rec.Files["A.mkv"])
}

func TestPlayNext_Exhausted(t *testing.T) {
	s, _, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv", "B.mkv")

	done := store.Done()
	skipped := store.Skipped()
	_, err := st.Update(dir, map[string]*store.FileState{"A.mkv": &done, "B.mkv": &skipped})
	require.NoError(t, err)

	_, err = s.PlayNext(context.Background(), dir, scan.Options{})
	assert.True(t, errors.Is(err, ErrNothingToPlay), "got %v", err)
}

func TestPlayNext_PlayerFailureLeavesStoreUntouched(t *testing.T) {
	s, mock, st, dir := testSession(t)
	mkfiles(t, dir, "B.mkv")

	playing := store.Playing(238*time.Second, testNow)
	_, err := st.Update(dir, map[string]*store.FileState{"B.mkv": &playing})
	require.NoError(t, err)
	before, err := st.Load(dir)
	require.NoError(t, err)

	mock.EXPECT().Play(gomock.Any(), gomock.Any(), gomock.Any()).Return(player.ErrExit)

	_, err = s.PlayNext(context.Background(), dir, scan.Options{})
	assert.True(t, errors.Is(err, player.ErrExit), "got %v", err)

	after, err := st.Load(dir)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(before, after), "store must not change on player failure")
}

func TestPlayNext_NearEndBecomesDone(t *testing.T) {
	s, mock, st, dir := testSession(t)
	mkfiles(t, dir, "B.mkv")

	playing := store.Playing(1400*time.Second, testNow)
	_, err := st.Update(dir, map[string]*store.FileState{"B.mkv": &playing})
	require.NoError(t, err)

	path := filepath.Join(dir, "B.mkv")
	mock.EXPECT().Play(gomock.Any(), path, 1395*time.Second).Return(nil)
	mock.EXPECT().Resume(path).Return(player.Resume{Position: 1430 * time.Second, Duration: 1435 * time.Second}, true)

	res, err := s.PlayNext(context.Background(), dir, scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, store.Done(), res.State)

	rec, err := st.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, store.Done(), rec.Files["B.mkv"])
}

func TestPlayNext_MultiplePlayingPicksFirst(t *testing.T) {
	s, mock, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv", "B.mkv")

	pa := store.Playing(10*time.Second, testNow)
	pb := store.Playing(20*time.Second, testNow)
	_, err := st.Update(dir, map[string]*store.FileState{"A.mkv": &pa, "B.mkv": &pb})
	require.NoError(t, err)

	path := filepath.Join(dir, "A.mkv")
	mock.EXPECT().Play(gomock.Any(), path, 5*time.Second).Return(nil)
	mock.EXPECT().Resume(path).Return(player.Resume{}, false)

	res, err := s.PlayNext(context.Background(), dir, scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, "A.mkv", res.Name)

	rec, err := st.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, store.Done(), rec.Files["A.mkv"])
	assert.Equal(t, pb, rec.Files["B.mkv"], "other playing entries stay as they are")
}

func TestPlayFile_ExplicitDoneFile(t *testing.T) {
	s, mock, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv")

	done := store.Done()
	_, err := st.Update(dir, map[string]*store.FileState{"A.mkv": &done})
	require.NoError(t, err)

	path := filepath.Join(dir, "A.mkv")
	mock.EXPECT().Play(gomock.Any(), path, time.Duration(0)).Return(nil)
	mock.EXPECT().Resume(path).Return(player.Resume{Position: 90 * time.Second}, true)

	res, err := s.PlayFile(context.Background(), dir, "A.mkv", scan.Options{})
	require.NoError(t, err)
	assert.Equal(t, store.StatePlaying, res.State.State)

	rec, err := st.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, store.StatePlaying, rec.Files["A.mkv"].State)
	assert.Equal(t, 90*time.Second, rec.Files["A.mkv"].Position)
}

func TestPlayFile_UnknownNameSuggests(t *testing.T) {
	s, _, _, dir := testSession(t)
	mkfiles(t, dir, "Alien.1979.mkv")

	_, err := s.PlayFile(context.Background(), dir, "Ailen.1979.mkv", scan.Options{})
	var unknown *UnknownFileError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, "Alien.1979.mkv", unknown.Suggestion)
}

func TestPlayFile_RejectsPaths(t *testing.T) {
	s, _, _, dir := testSession(t)
	mkfiles(t, dir, "A.mkv")

	_, err := s.PlayFile(context.Background(), dir, "sub/A.mkv", scan.Options{})
	require.Error(t, err)
	var unknown *UnknownFileError
	assert.False(t, errors.As(err, &unknown), "path arguments are invalid, not unknown")
}

func TestSetState(t *testing.T) {
	s, _, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv")

	done := store.Done()
	require.NoError(t, s.SetState(dir, "A.mkv", &done, scan.Options{}))

	rec, err := st.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, done, rec.Files["A.mkv"])

	// Unmark removes the entry entirely.
	require.NoError(t, s.SetState(dir, "A.mkv", nil, scan.Options{}))
	rec, err = st.Load(dir)
	require.NoError(t, err)
	_, ok := rec.Files["A.mkv"]
	assert.False(t, ok)
}

func TestSetState_RecordOnlyFile(t *testing.T) {
	s, _, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv")

	playing := store.Playing(30*time.Second, testNow)
	_, err := st.Update(dir, map[string]*store.FileState{"gone.mkv": &playing})
	require.NoError(t, err)

	// The file is gone from disk but its record entry still resolves.
	skipped := store.Skipped()
	require.NoError(t, s.SetState(dir, "gone.mkv", &skipped, scan.Options{}))

	rec, err := st.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, skipped, rec.Files["gone.mkv"])
}

func TestSetState_UnknownName(t *testing.T) {
	s, _, _, dir := testSession(t)
	mkfiles(t, dir, "A.mkv")

	err := s.SetState(dir, "Z.mkv", nil, scan.Options{})
	var unknown *UnknownFileError
	require.True(t, errors.As(err, &unknown), "got %v", err)
}

func TestView(t *testing.T) {
	s, _, st, dir := testSession(t)
	mkfiles(t, dir, "A.mkv", "B.mkv")

	done := store.Done()
	_, err := st.Update(dir, map[string]*store.FileState{"A.mkv": &done, "gone.mkv": &done})
	require.NoError(t, err)

	view, err := s.View(dir, scan.Options{})
	require.NoError(t, err)
	require.Len(t, view, 3)
	assert.Equal(t, "A.mkv", view[0].Name)
	assert.Equal(t, "B.mkv", view[1].Name)
	assert.Equal(t, "gone.mkv", view[2].Name)
	assert.False(t, view[2].OnDisk)
}
