package worker

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filesapi/internal/config"
	"filesapi/internal/model"
	repoMocks "filesapi/internal/repository/mocks"
	storageMocks "filesapi/internal/storage/mocks"
)

func testQueues() config.QueueConfig {
	return config.QueueConfig{UserQueue: "userQueue", FileQueue: "fileQueue"}
}

func newTestWorker(out *bytes.Buffer) (*Worker, *repoMocks.MockUserRepository, *repoMocks.MockFileRepository, *storageMocks.MockContentStore) {
	users := new(repoMocks.MockUserRepository)
	files := new(repoMocks.MockFileRepository)
	store := new(storageMocks.MockContentStore)
	log := slog.New(slog.NewTextHandler(out, nil))
	return New(nil, users, files, store, testQueues(), log), users, files, store
}

// pngBytes renders a solid 40x20 test image.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessUserJob(t *testing.T) {
	t.Run("logs a welcome line", func(t *testing.T) {
		var out bytes.Buffer
		w, users, _, _ := newTestWorker(&out)
		users.On("FindByID", mock.Anything, "u-1").
			Return(&model.User{ID: "u-1", Email: "bob@dylan.com"}, nil)

		err := w.ProcessUserJob(context.Background(), []byte(`{"userId":"u-1"}`))

		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Welcome bob@dylan.com")
		users.AssertExpectations(t)
	})

	t.Run("missing userId", func(t *testing.T) {
		var out bytes.Buffer
		w, _, _, _ := newTestWorker(&out)

		err := w.ProcessUserJob(context.Background(), []byte(`{}`))

		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("unknown user", func(t *testing.T) {
		var out bytes.Buffer
		w, users, _, _ := newTestWorker(&out)
		users.On("FindByID", mock.Anything, "u-9").Return(nil, sql.ErrNoRows)

		err := w.ProcessUserJob(context.Background(), []byte(`{"userId":"u-9"}`))

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("garbage payload", func(t *testing.T) {
		var out bytes.Buffer
		w, _, _, _ := newTestWorker(&out)

		err := w.ProcessUserJob(context.Background(), []byte(`{not json`))

		assert.Error(t, err)
	})
}

func TestProcessFileJob(t *testing.T) {
	imageRow := &model.File{
		ID:        "f-1",
		UserID:    "u-1",
		Name:      "photo.png",
		Type:      model.TypeImage,
		LocalPath: "c-1",
	}

	t.Run("generates all three variants", func(t *testing.T) {
		var out bytes.Buffer
		w, _, files, store := newTestWorker(&out)
		files.On("FindOwned", mock.Anything, "f-1", "u-1").Return(imageRow, nil)
		store.On("Read", mock.Anything, "c-1").Return(pngBytes(t), nil)

		var written = map[string][]byte{}
		for _, key := range []string{"c-1_500", "c-1_250", "c-1_100"} {
			key := key
			store.On("Write", mock.Anything, key, mock.Anything).
				Run(func(args mock.Arguments) {
					written[key] = args.Get(2).([]byte)
				}).
				Return(nil).Once()
		}

		err := w.ProcessFileJob(context.Background(), []byte(`{"userId":"u-1","fileId":"f-1"}`))

		require.NoError(t, err)
		store.AssertExpectations(t)

		// Each variant decodes back to its requested width.
		for key, want := range map[string]int{"c-1_500": 500, "c-1_250": 250, "c-1_100": 100} {
			img, derr := imaging.Decode(bytes.NewReader(written[key]))
			require.NoError(t, derr, key)
			assert.Equal(t, want, img.Bounds().Dx(), key)
		}
	})

	t.Run("missing fileId", func(t *testing.T) {
		var out bytes.Buffer
		w, _, _, _ := newTestWorker(&out)

		err := w.ProcessFileJob(context.Background(), []byte(`{"userId":"u-1"}`))

		assert.ErrorIs(t, err, ErrMissingFileID)
	})

	t.Run("missing userId", func(t *testing.T) {
		var out bytes.Buffer
		w, _, _, _ := newTestWorker(&out)

		err := w.ProcessFileJob(context.Background(), []byte(`{"fileId":"f-1"}`))

		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("file not owned", func(t *testing.T) {
		var out bytes.Buffer
		w, _, files, _ := newTestWorker(&out)
		files.On("FindOwned", mock.Anything, "f-1", "u-2").Return(nil, sql.ErrNoRows)

		err := w.ProcessFileJob(context.Background(), []byte(`{"userId":"u-2","fileId":"f-1"}`))

		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("not an image", func(t *testing.T) {
		var out bytes.Buffer
		w, _, files, _ := newTestWorker(&out)
		files.On("FindOwned", mock.Anything, "f-2", "u-1").
			Return(&model.File{ID: "f-2", UserID: "u-1", Name: "a.txt", Type: model.TypeFile, LocalPath: "c-2"}, nil)

		err := w.ProcessFileJob(context.Background(), []byte(`{"userId":"u-1","fileId":"f-2"}`))

		assert.Error(t, err)
	})

	t.Run("unreadable content", func(t *testing.T) {
		var out bytes.Buffer
		w, _, files, store := newTestWorker(&out)
		files.On("FindOwned", mock.Anything, "f-1", "u-1").Return(imageRow, nil)
		store.On("Read", mock.Anything, "c-1").Return([]byte("not an image"), nil)

		err := w.ProcessFileJob(context.Background(), []byte(`{"userId":"u-1","fileId":"f-1"}`))

		assert.Error(t, err)
	})
}
