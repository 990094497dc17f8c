package classifier

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalognorm/internal/models"
	"catalognorm/internal/normalize"
)

func TestSaveLoad(t *testing.T) {
	m, err := Train(correctionPairs())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "model.json")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Labels(), loaded.Labels())

	want, _ := m.Predict("Rd Shirt")
	got, err := loaded.Predict("Rd Shirt")
	require.NoError(t, err)
	assert.Equal(t, want.Label, got.Label)
	assert.InDelta(t, want.Confidence, got.Confidence, 1e-12)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0o644))
	_, err = Load(garbage)
	assert.Error(t, err)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version":99,"documents":1,"labels":["x"]}`), 0o644))
	_, err = Load(future)
	assert.ErrorContains(t, err, "unsupported model artifact version")

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`{"version":2,"documents":2,"labels":["a","b"],"classifier":"bm90IGdvYg=="}`), 0o644))
	_, err = Load(corrupt)
	assert.ErrorContains(t, err, "failed to decode classifier")
}

func TestSaveLoad_SingleLabel(t *testing.T) {
	m, err := Train([]models.TrainingPair{{Original: "Rd Shirt", Correction: "Red Shirt"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, m.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	pred, err := loaded.Predict("anything at all")
	require.NoError(t, err)
	assert.Equal(t, "Red Shirt", pred.Label)
	assert.Equal(t, 1.0, pred.Confidence)
}

func TestHandle_EmptyReportsNoModel(t *testing.T) {
	h := NewHandle()

	_, err := h.Predict("Rd Shirt")
	assert.ErrorIs(t, err, normalize.ErrNoModel)
	assert.Nil(t, h.Model())
	assert.False(t, h.Info().Loaded)
}

func TestHandle_ReloadKeepsPreviousOnFailure(t *testing.T) {
	m, err := Train(correctionPairs())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, m.Save(path))

	h := NewHandle()
	require.NoError(t, h.Reload(path))

	info := h.Info()
	assert.True(t, info.Loaded)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, 5, info.Classes)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Error(t, h.Reload(path))

	pred, err := h.Predict("Rd Shirt")
	require.NoError(t, err)
	assert.Equal(t, "Red Shirt", pred.Label)
}

func TestHandle_LoadIfExists(t *testing.T) {
	h := NewHandle()

	ok, err := h.LoadIfExists(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, h.Model())
}

func TestHandle_ConcurrentSwapAndPredict(t *testing.T) {
	first, err := Train(correctionPairs())
	require.NoError(t, err)
	second, err := Train([]models.TrainingPair{{Original: "Rd Shirt", Correction: "Crimson Shirt"}})
	require.NoError(t, err)

	h := NewHandle()
	h.Swap(first, "first")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				pred, err := h.Predict("Rd Shirt")
				assert.NoError(t, err)
				assert.Contains(t, []string{"Red Shirt", "Crimson Shirt"}, pred.Label)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			h.Swap(second, "second")
		} else {
			h.Swap(first, "first")
		}
	}
	wg.Wait()
}
